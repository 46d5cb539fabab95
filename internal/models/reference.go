package models

// Project is owned by project management; the ledger only checks that it
// exists.
type Project struct {
	Base
	Name string `gorm:"not null" json:"name"`
}

func (Project) TableName() string { return "projects" }

// Employee is owned by HR; the ledger only checks that it exists.
type Employee struct {
	Base
	Name string `gorm:"not null" json:"name"`
}

func (Employee) TableName() string { return "employees" }
