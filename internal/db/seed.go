package db

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedDemoData resets the database and populates it with demo profiles,
// likes, chats for the mutual pairs and a few opening messages.
//
// Behavior:
//  1. Clears existing data in all four tables.
//  2. Creates 20 profiles with Telegram-style ids.
//  3. Generates random likes (~70% accept rate), forcing every third like to
//     be mutual so matches exist out of the box.
//  4. Opens a chat per mutual pair and drops an opener message into it.
//
// Compatible with both MySQL and SQLite (auto-increment reset differs).
func SeedDemoData(gdb *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, stmt := range []string{
		"DELETE FROM messages",
		"DELETE FROM chats",
		"DELETE FROM likes",
		"DELETE FROM users",
	} {
		if err := gdb.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}

	switch gdb.Dialector.Name() {
	case "mysql":
		gdb.Exec("ALTER TABLE messages AUTO_INCREMENT = 1")
		gdb.Exec("ALTER TABLE chats AUTO_INCREMENT = 1")
	case "sqlite":
		gdb.Exec("DELETE FROM sqlite_sequence WHERE name IN ('messages', 'chats')")
	}

	log.Println("Cleared existing data")

	// --- Seed profiles ---
	names := []string{
		"Ann", "Ben", "Kim", "Olga", "Max", "Ira", "Leo", "Mia", "Tom", "Zoe",
		"Nik", "Eva", "Sam", "Lia", "Dan", "Nora", "Ivan", "Rita", "Oleg", "Vera",
	}
	cities := []string{"Berlin", "Tbilisi", "Belgrade", "Warsaw", "Lisbon"}
	interests := []string{"hiking, films", "chess, coffee", "climbing", "books, jazz", "street food"}

	ids := make([]int64, 0, len(names))
	for i, name := range names {
		id := int64(100001 + i)
		age := 21 + r.Intn(15)

		user := User{
			ID:        id,
			Name:      name,
			Age:       &age,
			City:      cities[i%len(cities)],
			Bio:       fmt.Sprintf("Hi, I'm %s!", name),
			Interests: interests[i%len(interests)],
			Username:  strings.ToLower(name),
		}
		if err := gdb.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		ids = append(ids, id)
	}
	log.Printf("Seeded %d users.", len(ids))

	// --- Seed likes, every third one guaranteed mutual ---
	counter := 0
	for _, from := range ids {
		for j := 0; j < 6; j++ {
			to := ids[r.Intn(len(ids))]
			if to == from {
				continue
			}
			// like probability 70%
			if r.Intn(100) >= 70 {
				continue
			}

			if counter%3 == 0 {
				recip := Like{FromUserID: to, ToUserID: from}
				gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&recip)
			}

			like := Like{FromUserID: from, ToUserID: to}
			if err := gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}
			counter++
		}
	}

	// --- Open a chat per mutual pair ---
	var pairs []Like
	if err := gdb.Table("likes l").
		Select("l.from_user_id, l.to_user_id").
		Joins("JOIN likes r ON r.from_user_id = l.to_user_id AND r.to_user_id = l.from_user_id").
		Where("l.from_user_id < l.to_user_id").
		Find(&pairs).Error; err != nil {
		return fmt.Errorf("failed to query mutual pairs: %w", err)
	}

	openers := []string{"hi!", "hey, nice to match!", "so... coffee?"}
	for _, p := range pairs {
		matched := Chat{User1ID: p.FromUserID, User2ID: p.ToUserID}
		if err := gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&matched).Error; err != nil {
			return fmt.Errorf("failed to seed chat: %w", err)
		}
		if matched.ID == 0 {
			continue // row existed already
		}

		msg := Message{
			ChatID:     matched.ID,
			FromUserID: p.FromUserID,
			Text:       openers[r.Intn(len(openers))],
		}
		if err := gdb.Create(&msg).Error; err != nil {
			return fmt.Errorf("failed to seed message: %w", err)
		}
	}
	log.Printf("Seeded %d mutual pairs with chats.", len(pairs))

	return nil
}
