package main

import (
	"log"
	"time"

	"library-management-be/internal/config"
	"library-management-be/internal/model"
	"library-management-be/pkg/database"
)

type seedBook struct {
	ISBN      string
	Title     string
	Author    string
	Published string
	Category  string
}

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding categories...")

	categoryIDs := make(map[string]model.Category)
	for _, name := range []string{"Software", "Fiction", "History", "Science"} {
		var existing model.Category
		if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
			log.Printf("Category '%s' already exists, skipping...", name)
			categoryIDs[name] = existing
			continue
		}

		c := model.Category{Name: name}
		if err := db.Create(&c).Error; err != nil {
			log.Fatalf("Error creating category '%s': %v", name, err)
		}
		log.Printf("Created category: %s", name)
		categoryIDs[name] = c
	}

	log.Println("Seeding books...")

	books := []seedBook{
		{"9780132350884", "Clean Code", "Robert C. Martin", "2008-08-01", "Software"},
		{"9780201485677", "Refactoring", "Martin Fowler", "1999-07-08", "Software"},
		{"9780134190440", "The Go Programming Language", "Alan Donovan, Brian Kernighan", "2015-10-26", "Software"},
		{"9780441172719", "Dune", "Frank Herbert", "1965-08-01", "Fiction"},
		{"9780062316097", "Sapiens", "Yuval Noah Harari", "2015-02-10", "History"},
		{"9780553380163", "A Brief History of Time", "Stephen Hawking", "1998-09-01", "Science"},
	}

	for _, b := range books {
		var count int64
		db.Model(&model.Book{}).Where("isbn = ?", b.ISBN).Count(&count)
		if count > 0 {
			log.Printf("Book '%s' already exists, skipping...", b.ISBN)
			continue
		}

		published, err := time.Parse("2006-01-02", b.Published)
		if err != nil {
			log.Fatalf("Bad published date for %s: %v", b.ISBN, err)
		}
		row := model.Book{
			ISBN:          b.ISBN,
			Title:         b.Title,
			Author:        b.Author,
			PublishedDate: published,
			CategoryId:    categoryIDs[b.Category].Id,
			FinePerDay:    cfg.Loan.DefaultFinePerDay,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Printf("Error creating book '%s': %v", b.ISBN, err)
		} else {
			log.Printf("Created book: %s (%s)", b.Title, b.ISBN)
		}
	}

	log.Println("Catalog seeding completed!")
}
