package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"filevault/internal/database"
	"filevault/internal/domain"
	"filevault/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "filevault.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(&domain.User{}, &domain.Resource{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children before parents)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM resources")
	db.Exec("DELETE FROM users")

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	store, err := storage.NewLocal(uploadDir)
	if err != nil {
		log.Fatal("storage init failed:", err)
	}

	// ================== USERS ==================
	log.Println("Creating users...")

	demoHash, _ := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	demo := domain.User{
		Email:        "demo@filevault.dev",
		PasswordHash: string(demoHash),
		Name:         "Demo User",
		Phone:        "+77771234567",
	}
	db.Create(&demo)
	log.Println("Demo user created: demo@filevault.dev / demo1234")

	others := []domain.User{}
	for i := 1; i <= 2; i++ {
		hash, _ := bcrypt.GenerateFromPassword([]byte("user1234"), bcrypt.DefaultCost)
		u := domain.User{
			Email:        fmt.Sprintf("user%d@filevault.dev", i),
			PasswordHash: string(hash),
			Name:         fmt.Sprintf("User %d", i),
			Phone:        fmt.Sprintf("+7777123456%d", 7+i),
		}
		db.Create(&u)
		others = append(others, u)
	}

	// ================== FOLDERS ==================
	log.Println("Creating folder tree...")

	folders := map[string]*domain.Resource{}
	for _, name := range []string{"Documents", "Photos", "Archive"} {
		f := &domain.Resource{
			OwnerID:  demo.ID,
			Type:     domain.TypeFolder,
			Mimetype: "inode/directory",
			Name:     name,
		}
		db.Create(f)
		folders[name] = f
	}

	// one nested level under Documents
	reports := &domain.Resource{
		OwnerID:  demo.ID,
		ParentID: &folders["Documents"].ID,
		Type:     domain.TypeFolder,
		Mimetype: "inode/directory",
		Name:     "Reports",
	}
	db.Create(reports)

	// ================== FILES ==================
	log.Println("Creating files...")

	ctx := context.Background()
	makeFile := func(owner int64, parent *int64, name, body string) {
		key := uuid.NewString() + ".txt"
		url, err := store.Save(ctx, key, "text/plain", strings.NewReader(body))
		if err != nil {
			log.Fatal("seed upload failed:", err)
		}
		db.Create(&domain.Resource{
			OwnerID:  owner,
			ParentID: parent,
			Type:     domain.TypeFile,
			Mimetype: "text/plain",
			Name:     name,
			Size:     int64(len(body)),
			FileURL:  url,
		})
	}

	makeFile(demo.ID, &reports.ID, "q1-report.txt", "Quarterly numbers go here.")
	makeFile(demo.ID, &folders["Documents"].ID, "notes.txt", "Remember to rotate the backups.")
	makeFile(demo.ID, nil, "readme.txt", "Root level file owned by the demo user.")
	for i, u := range others {
		makeFile(u.ID, nil, fmt.Sprintf("scratch-%d.txt", i+1), fmt.Sprintf("Scratch pad for user %d, entry %d.", i+1, rand.Intn(100)))
	}

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Demo: demo@filevault.dev / demo1234")
	log.Println("Users: user1@filevault.dev, user2@filevault.dev / user1234")
}
