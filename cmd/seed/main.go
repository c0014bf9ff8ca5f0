package main

import (
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"retreatdesk/internal/config"
	"retreatdesk/internal/database"
	"retreatdesk/internal/domain"
	"retreatdesk/internal/layout"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	for _, table := range []string{"meditation_seats", "meditation_hall_configs", "allocations", "participants", "rooms", "sessions", "operators"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	// ================== OPERATORS ==================
	log.Println("Creating operators...")
	for _, op := range []struct {
		email, name, password string
		role                  domain.OperatorRole
	}{
		{"admin@retreat.local", "Registrar", "admin123", domain.RoleAdmin},
		{"desk@retreat.local", "Front desk", "desk123", domain.RoleOperator},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(op.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		if err := db.Create(&domain.Operator{Email: op.email, Name: op.name, PasswordHash: string(hash), Role: op.role}).Error; err != nil {
			log.Fatal(err)
		}
		log.Printf("Operator created: %s / %s", op.email, op.password)
	}

	// ================== SESSION ==================
	session := domain.Session{Name: "Ten-day course", Location: "Main centre"}
	if err := db.Create(&session).Error; err != nil {
		log.Fatal(err)
	}

	// ================== ROOMS ==================
	log.Println("Creating rooms...")
	var rooms []domain.Room
	roomTypes := []domain.RoomType{domain.RoomTypeMonastic, domain.RoomTypeExperienced, domain.RoomTypeNew, domain.RoomTypeNew, domain.RoomTypeElderly1}
	for _, area := range []struct {
		prefix string
		gender domain.Gender
	}{{"A", domain.GenderMale}, {"B", domain.GenderFemale}} {
		for i, t := range roomTypes {
			rooms = append(rooms, domain.Room{
				RoomNumber: fmt.Sprintf("%s%d", area.prefix, 101+i),
				Building:   area.prefix,
				Floor:      1,
				Capacity:   2 + i%3,
				Type:       t,
				Status:     domain.RoomStatusEnabled,
				GenderArea: area.gender,
			})
		}
	}
	if err := db.Create(&rooms).Error; err != nil {
		log.Fatal(err)
	}

	// ================== PARTICIPANTS ==================
	log.Println("Creating participants...")
	rng := rand.New(rand.NewPCG(7, 11))
	participants := []domain.Participant{
		{Name: "Ven. Dhammika", Gender: domain.GenderMale, Age: 62, CourseCount: 30},
		{Name: "Bhikkhuni Khema", Gender: domain.GenderFemale, Age: 55, CourseCount: 25},
		{Name: "Arjun Mehta", Gender: domain.GenderMale, Age: 41, CourseCount: 4, CompanionList: "Rohan Mehta"},
		{Name: "Rohan Mehta", Gender: domain.GenderMale, Age: 19},
		{Name: "Mira Shah", Gender: domain.GenderFemale, Age: 34, CourseCount: 1, CompanionList: "Noor Ali, Tara"},
		{Name: "Noor Ali", Gender: domain.GenderFemale, Age: 29},
	}
	for i := 1; i <= 8; i++ {
		g := domain.GenderMale
		if i%2 == 0 {
			g = domain.GenderFemale
		}
		participants = append(participants, domain.Participant{
			Name:        fmt.Sprintf("Student %02d", i),
			Gender:      g,
			Age:         18 + rng.IntN(55),
			CourseCount: rng.IntN(3),
		})
	}
	for i := range participants {
		participants[i].SessionID = session.ID
		participants[i].Category = domain.CategoryUnknown
	}
	if err := db.Create(&participants).Error; err != nil {
		log.Fatal(err)
	}

	// ================== HALL ==================
	hall := layout.HallLayout{
		TotalRows: 4,
		TotalCols: 11,
		Sections: []layout.Section{
			{Name: "A", Purpose: layout.PurposeMixed, RowStart: 0, RowEnd: 2, ColStart: 0, ColEnd: 3},
			{Name: "B", Purpose: layout.PurposeMixed, RowStart: 0, RowEnd: 2, ColStart: 5, ColEnd: 8},
		},
		MonasticSeats: &layout.MonasticSeatConfig{StartRow: 0, StartCol: 10, Direction: layout.DirectionColumn, Spacing: 1, MaxCount: 4, Prefix: "M"},
		Numbering:     layout.NumberingConfig{Mode: layout.NumberingABSplit, Start: 1},
		HighlightRules: []layout.HighlightRule{
			{Code: "elderly", Expression: "age>=60", Tag: "elderly"},
		},
	}
	doc, err := layout.Encode(layout.WithDefaults(hall))
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Create(&domain.HallConfig{SessionID: session.ID, HallName: "Dhamma hall", Layout: doc}).Error; err != nil {
		log.Fatal(err)
	}

	log.Printf("Seed complete: session_id=%d rooms=%d participants=%d", session.ID, len(rooms), len(participants))
}
