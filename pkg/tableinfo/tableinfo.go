package tableinfo

const (
	UsersTableName = "users"

	UserIDColumn           = "id"
	UserFirstNameColumn    = "first_name"
	UserLastNameColumn     = "last_name"
	UserEmailColumn        = "email"
	UserPasswordHashColumn = "password"
	UserCreatedAtColumn    = "created_at"
	UserUpdatedAtColumn    = "updated_at"
)

// UserColumns is the column order every user SELECT and RETURNING uses.
var UserColumns = []string{
	UserIDColumn,
	UserFirstNameColumn,
	UserLastNameColumn,
	UserEmailColumn,
	UserPasswordHashColumn,
	UserCreatedAtColumn,
	UserUpdatedAtColumn,
}
