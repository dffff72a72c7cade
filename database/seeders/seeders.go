package seeders

import (
	"log"

	"commitrack_go/database"
	"commitrack_go/models"
	"commitrack_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedBranches()
	SeedUsers()
	SeedColleges()

	log.Println("Database seeding completed successfully!")
}

// SeedBranches seeds the branches table
func SeedBranches() {
	var count int64
	database.DB.Model(&models.Branch{}).Count(&count)
	if count > 0 {
		log.Println("Branches already seeded, skipping...")
		return
	}

	branches := []models.Branch{
		{
			Name:    "Head Office",
			Code:    "HQ",
			Address: "Level 2, 155 Queen Street, Melbourne VIC",
			Phone:   "03-9600-1000",
			Active:  true,
		},
		{
			Name:    "Sydney Branch",
			Code:    "SYD",
			Address: "Suite 8, 37 Pitt Street, Sydney NSW",
			Phone:   "02-9200-2000",
			Active:  true,
		},
	}

	for _, branch := range branches {
		if err := database.DB.Create(&branch).Error; err != nil {
			log.Printf("Error seeding branch %s: %v", branch.Code, err)
		}
	}

	log.Println("Branches seeded successfully")
}

// SeedUsers seeds the default owner account
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	hashedPassword, _ := utils.HashPassword("changeme123")

	users := []models.User{
		{
			Username: "owner",
			Password: hashedPassword,
			Email:    "owner@commitrack.local",
			Role:     "owner",
			BranchID: 1,
			Status:   "active",
		},
		{
			Username: "admin",
			Password: hashedPassword,
			Email:    "admin@commitrack.local",
			Role:     "admin",
			BranchID: 1,
			Status:   "active",
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", user.Username, err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedColleges seeds a couple of partner colleges
func SeedColleges() {
	var count int64
	database.DB.Model(&models.College{}).Count(&count)
	if count > 0 {
		log.Println("Colleges already seeded, skipping...")
		return
	}

	colleges := []models.College{
		{
			Name:            "Greenfield Institute of Technology",
			Code:            "GIT",
			Country:         "Australia",
			ContactEmail:    "accounts@greenfield.edu.au",
			DefaultLeadDays: 7,
			Active:          true,
		},
		{
			Name:            "Pacific College of Business",
			Code:            "PCB",
			Country:         "Australia",
			ContactEmail:    "finance@pacificcollege.edu.au",
			DefaultLeadDays: 14,
			Active:          true,
		},
	}

	for _, college := range colleges {
		if err := database.DB.Create(&college).Error; err != nil {
			log.Printf("Error seeding college %s: %v", college.Code, err)
		}
	}

	log.Println("Colleges seeded successfully")
}
