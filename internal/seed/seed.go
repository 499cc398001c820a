// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"tourdiary/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumReleases int
	ShouldClean bool
}

// DefaultPassword is the plaintext password every seeded account gets.
const DefaultPassword = "demo1234"

var locations = []string{
	"Hangzhou", "Lijiang", "Chengdu", "Guilin", "Xiamen", "Dali",
	"Kyoto", "Chiang Mai", "Lisbon", "Reykjavik", "Queenstown", "Banff",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample account. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:   uuid.NewString(),
		UserName: gofakeit.FirstName() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Password: string(hash),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateRelease constructs and persists a diary entry for the given author.
func (f *Factory) CreateRelease(user *models.User, overrides ...func(*models.Release)) (*models.Release, error) {
	location := locations[f.rng.Intn(len(locations))]
	days := f.rng.Intn(7) + 1

	release := &models.Release{
		ReleaseID: uuid.NewString(),
		UserID:    user.UserID,
		Title:     fmt.Sprintf("%d days in %s", days, location),
		PlayTime:  days * 24 * 60,
		Money:     float64(gofakeit.Number(200, 8000)),
		PersonNum: f.rng.Intn(4) + 1,
		Content:   gofakeit.Paragraph(2, 4, 8, "\n"),
		Pictures: models.StringList{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
			fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		},
		Videos:       models.StringList{},
		Cover:        fmt.Sprintf("https://picsum.photos/seed/cover-%s/400/300", gofakeit.UUID()),
		Location:     location,
		State:        models.StateWait,
		Reason:       models.ReasonPendingReview,
		DeleteStatus: models.DeleteStatusVisible,
	}

	// Spread created_at over the last 90 days so listings look lived-in.
	daysBack := f.rng.Intn(90)
	release.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(f.rng.Intn(24))*time.Hour)

	for _, override := range overrides {
		override(release)
	}
	if err := f.db.Create(release).Error; err != nil {
		return nil, err
	}
	return release, nil
}

// Run seeds the database with demo users, releases, likes and follows.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 8
	}
	if opts.NumReleases <= 0 {
		opts.NumReleases = 40
	}

	if opts.ShouldClean {
		for _, table := range []string{"likes", "follows", "releases", "users"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clean %s: %w", table, err)
			}
		}
		log.Println("Cleaned existing seed data")
	}

	f := NewFactory(db)

	admin, err := f.CreateUser(func(u *models.User) {
		u.UserName = "admin"
		u.IsAdmin = true
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	users := []*models.User{admin}
	for i := 1; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	states := []string{models.StateWait, models.StateResolve, models.StateResolve, models.StateResolve, models.StateReject}
	var releases []*models.Release
	for i := 0; i < opts.NumReleases; i++ {
		author := users[f.rng.Intn(len(users))]
		state := states[f.rng.Intn(len(states))]
		release, err := f.CreateRelease(author, func(r *models.Release) {
			r.State = state
			switch state {
			case models.StateResolve:
				r.Reason = ""
			case models.StateReject:
				r.Reason = "Content does not meet the community guidelines"
			}
			// A few entries land in the recycle bin.
			if f.rng.Intn(10) == 0 {
				r.DeleteStatus = models.DeleteStatusDeleted
			}
		})
		if err != nil {
			return fmt.Errorf("create release: %w", err)
		}
		releases = append(releases, release)
	}

	for _, user := range users {
		for i := 0; i < 3 && len(releases) > 0; i++ {
			release := releases[f.rng.Intn(len(releases))]
			if err := db.Exec(
				`INSERT INTO likes (user_id, release_id, created_at)
				 VALUES (?, ?, CURRENT_TIMESTAMP)
				 ON CONFLICT (user_id, release_id) DO NOTHING`,
				user.UserID, release.ReleaseID,
			).Error; err != nil {
				return fmt.Errorf("create like: %w", err)
			}
		}
		for i := 0; i < 2; i++ {
			other := users[f.rng.Intn(len(users))]
			if other.UserID == user.UserID {
				continue
			}
			if err := db.Exec(
				`INSERT INTO follows (follower_id, followee_id, created_at)
				 VALUES (?, ?, CURRENT_TIMESTAMP)
				 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
				user.UserID, other.UserID,
			).Error; err != nil {
				return fmt.Errorf("create follow: %w", err)
			}
		}
	}

	log.Printf("Seeded %d users and %d releases (password %q)", len(users), len(releases), DefaultPassword)
	return nil
}
