package entity

import "time"

type News struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ImageURL    *string    `json:"image_url"`
	PublishedAt *time.Time `json:"published_at"`
}

type PriceList struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	FileURL   string     `json:"file_url"`
	CreatedAt *time.Time `json:"created_at"`
}

/*
MySQL schema:

CREATE TABLE news (
	id INT AUTO_INCREMENT PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	content TEXT NOT NULL,
	image_url TEXT NULL,
	published_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE price_lists (
	id INT AUTO_INCREMENT PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	file_url TEXT NOT NULL,
	created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP
);
*/
