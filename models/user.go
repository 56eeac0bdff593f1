package models

// User holds the admin credential pair. The password is stored and compared
// as plaintext.
type User struct {
	ID       int64  `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex:idx_user_username"`
	Password string `json:"-" db:"password" gorm:"type:text;not null"`
}
