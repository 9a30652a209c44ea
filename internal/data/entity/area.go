package entity

type Area struct {
	Base
	Name        string `db:"name"`
	Floor       int    `db:"floor"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
}
