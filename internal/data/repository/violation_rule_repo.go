package repository

import (
	"context"
	"fmt"
	"time"

	"library-seating/internal/data/entity"
	"library-seating/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ViolationRuleRepository interface {
	// EnsureDefaults seeds the built-in rule set, leaving already present
	// rows (and any runtime edits on them) untouched.
	EnsureDefaults(ctx context.Context) error
	FindAll(ctx context.Context) ([]*entity.ViolationRule, error)
	FindByID(ctx context.Context, id string) (*entity.ViolationRule, error)
	Update(ctx context.Context, rule *entity.ViolationRule) error
}

type violationRuleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewViolationRuleRepository(db database.PgxIface, log *zap.Logger) ViolationRuleRepository {
	return &violationRuleRepository{
		db:  db,
		log: log.With(zap.String("repository", "violation_rule")),
	}
}

var defaultRules = []entity.ViolationRule{
	{
		ID:          entity.RuleNoShow,
		Name:        "No-show",
		Description: "Not checked in within 15 minutes of the reservation start",
		Enabled:     true,
		Severity:    entity.SeverityMedium,
		AutoResolve: false,
		SortOrder:   1,
	},
	{
		ID:          entity.RuleOverstay,
		Name:        "Overstay",
		Description: "Not checked out 30 minutes after the reservation end",
		Enabled:     true,
		Severity:    entity.SeverityHigh,
		AutoResolve: true,
		SortOrder:   2,
	},
	{
		ID:          entity.RuleLateCheckIn,
		Name:        "Late check-in",
		Description: "Checked in more than 10 minutes after the reservation start",
		Enabled:     true,
		Severity:    entity.SeverityLow,
		AutoResolve: false,
		SortOrder:   3,
	},
	{
		ID:          entity.RuleFrequentCancellation,
		Name:        "Frequent cancellation",
		Description: "Three or more cancellations within 24 hours",
		Enabled:     true,
		Severity:    entity.SeverityMedium,
		AutoResolve: false,
		SortOrder:   4,
	},
	{
		ID:          entity.RuleUnauthorizedExtension,
		Name:        "Unauthorized extension",
		Description: "Not checked out one hour after the reservation end",
		Enabled:     true,
		Severity:    entity.SeverityHigh,
		AutoResolve: true,
		SortOrder:   5,
	},
}

func (r *violationRuleRepository) EnsureDefaults(ctx context.Context) error {
	query := `
		INSERT INTO violation_rules (id, name, description, enabled, severity, auto_resolve, sort_order, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	now := time.Now()
	for _, rule := range defaultRules {
		_, err := r.db.Exec(ctx, query,
			rule.ID,
			rule.Name,
			rule.Description,
			rule.Enabled,
			rule.Severity,
			rule.AutoResolve,
			rule.SortOrder,
			now,
		)
		if err != nil {
			r.log.Error("Failed to seed violation rule",
				zap.Error(err),
				zap.String("rule_id", rule.ID),
			)
			return fmt.Errorf("seed violation rule %s: %w", rule.ID, err)
		}
	}

	return nil
}

func (r *violationRuleRepository) FindAll(ctx context.Context) ([]*entity.ViolationRule, error) {
	query := `
		SELECT id, name, description, enabled, severity, auto_resolve, sort_order, updated_at
		FROM violation_rules
		ORDER BY sort_order
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to query violation rules", zap.Error(err))
		return nil, fmt.Errorf("query violation rules: %w", err)
	}
	defer rows.Close()

	var rules []*entity.ViolationRule
	for rows.Next() {
		var rule entity.ViolationRule
		err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.Description,
			&rule.Enabled,
			&rule.Severity,
			&rule.AutoResolve,
			&rule.SortOrder,
			&rule.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan violation rule row", zap.Error(err))
			return nil, fmt.Errorf("scan violation rule row: %w", err)
		}
		rules = append(rules, &rule)
	}

	return rules, nil
}

func (r *violationRuleRepository) FindByID(ctx context.Context, id string) (*entity.ViolationRule, error) {
	query := `
		SELECT id, name, description, enabled, severity, auto_resolve, sort_order, updated_at
		FROM violation_rules
		WHERE id = $1
	`

	var rule entity.ViolationRule
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rule.ID,
		&rule.Name,
		&rule.Description,
		&rule.Enabled,
		&rule.Severity,
		&rule.AutoResolve,
		&rule.SortOrder,
		&rule.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find violation rule by ID",
			zap.Error(err),
			zap.String("rule_id", id),
		)
		return nil, fmt.Errorf("find violation rule by ID %s: %w", id, err)
	}

	return &rule, nil
}

func (r *violationRuleRepository) Update(ctx context.Context, rule *entity.ViolationRule) error {
	query := `
		UPDATE violation_rules
		SET name = $2, description = $3, enabled = $4, severity = $5, auto_resolve = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		rule.ID,
		rule.Name,
		rule.Description,
		rule.Enabled,
		rule.Severity,
		rule.AutoResolve,
		rule.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update violation rule",
			zap.Error(err),
			zap.String("rule_id", rule.ID),
		)
		return fmt.Errorf("update violation rule %s: %w", rule.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("violation rule %s not found", rule.ID)
	}

	return nil
}
