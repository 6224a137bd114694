package entity

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // bcrypt hash, or plaintext for rows created before hashing
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    *time.Time `json:"created_at"`
}

/*
MySQL schema:

CREATE TABLE users (
	id INT AUTO_INCREMENT PRIMARY KEY,
	username VARCHAR(100) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'manager',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP
);
*/
