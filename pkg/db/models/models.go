package models

// All lists every persisted model in dependency order. sqlite dev mode and
// tests AutoMigrate from it; Postgres is managed by goose migrations.
func All() []any {
	return []any{
		&User{},
		&Group{},
		&UserGroup{},
		&Profile{},
		&Owner{},
		&Administrator{},
		&Supervisor{},
		&Worker{},
		&Vehicle{},
		&Service{},
		&Process{},
		&Notification{},
		&ProcessNotification{},
		&Payment{},
		&Appointment{},
		&Quotation{},
		&QuotationLineItem{},
	}
}
