// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"commune/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password assigned to every seeded user.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumMessages int
	ShouldClean bool
}

// Seeder populates the database with generated test data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder returns a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed populates the database with test data
func (s *Seeder) Seed(opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	log.Printf("seeding %d users, %d posts, %d messages", opts.NumUsers, opts.NumPosts, opts.NumMessages)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	if err := s.createSocialMesh(users); err != nil {
		return fmt.Errorf("create social mesh: %w", err)
	}

	if err := s.createPosts(users, opts.NumPosts); err != nil {
		return fmt.Errorf("create posts: %w", err)
	}

	if err := s.createMessages(users, opts.NumMessages); err != nil {
		return fmt.Errorf("create messages: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

// ClearAll removes all seedable rows. Roles are kept.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"messages", "posts", "friend_edges", "subscriptions",
		"invitations", "user_roles", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) createUsers(n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	var userRole models.Role
	if err := s.db.Where("name = ?", models.RoleUser).First(&userRole).Error; err != nil {
		return nil, fmt.Errorf("user role missing, run migrations first: %w", err)
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:    gofakeit.Email(),
			Password: string(hashed),
			Roles:    []models.Role{userRole},
		}
		if err := s.db.Create(&user).Error; err != nil {
			// regenerated names can collide; skip and keep going
			continue
		}
		users = append(users, user)
	}
	if len(users) < 2 {
		return nil, fmt.Errorf("too few users created: %d", len(users))
	}
	return users, nil
}

// createSocialMesh links each user to a few random others as accepted
// friendships, writing the same rows the accept flow would.
func (s *Seeder) createSocialMesh(users []models.User) error {
	for i := range users {
		friendCount := rand.Intn(4) + 1
		for j := 0; j < friendCount; j++ {
			other := users[rand.Intn(len(users))]
			if other.ID == users[i].ID {
				continue
			}
			if err := s.befriend(users[i].ID, other.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) befriend(a, b uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		edges := []models.FriendEdge{
			{UserID: a, FriendID: b},
			{UserID: b, FriendID: a},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
			return err
		}
		subs := []models.Subscription{
			{SubscriberID: a, TargetID: b},
			{SubscriberID: b, TargetID: a},
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&subs).Error
	})
}

func (s *Seeder) createPosts(users []models.User, n int) error {
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		header := gofakeit.Sentence(4)
		if len(header) > models.MaxHeaderLen {
			header = header[:models.MaxHeaderLen]
		}
		post := models.Post{
			UserID: author.ID,
			Header: header,
			Text:   gofakeit.Paragraph(1, 3, 8, "\n"),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return err
		}
	}
	return nil
}

// createMessages sends messages only along existing friend edges so the data
// respects the friendship gate.
func (s *Seeder) createMessages(users []models.User, n int) error {
	var edges []models.FriendEdge
	if err := s.db.Find(&edges).Error; err != nil {
		return err
	}
	if len(edges) == 0 {
		return nil
	}

	for i := 0; i < n; i++ {
		edge := edges[rand.Intn(len(edges))]
		message := models.Message{
			SenderID:    edge.UserID,
			RecipientID: edge.FriendID,
			Text:        gofakeit.Sentence(10),
		}
		if err := s.db.Create(&message).Error; err != nil {
			return err
		}
	}
	return nil
}
