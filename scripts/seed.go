package main

import (
	"context"
	"log"

	"github.com/go-demo/forum/internal/config"
	"github.com/go-demo/forum/internal/model"
	"github.com/go-demo/forum/internal/pkg/database"
	"github.com/go-demo/forum/internal/repository"
	"github.com/go-demo/forum/internal/service"
	"go.uber.org/zap"
)

func main() {
	log.Println("Starting database seed...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := zap.NewNop()
	db, err := database.NewPostgres(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	userRepo := repository.NewUserRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	auth := service.NewAuthService(userRepo, logger)
	rooms := service.NewRoomService(roomRepo, topicRepo, messageRepo, logger)
	messages := service.NewMessageService(messageRepo, roomRepo, logger)

	log.Println("Creating users...")
	users := []struct {
		name     string
		username string
		email    string
	}{
		{"Alice Chen", "alice", "alice@example.com"},
		{"Bob Wang", "bob", "bob@example.com"},
		{"Charlie Lin", "charlie", "charlie@example.com"},
		{"Diana Wu", "diana", "diana@example.com"},
	}

	var created []*model.User
	for _, u := range users {
		user, err := auth.Signup(ctx, &service.SignupInput{
			Name:            u.name,
			Username:        u.username,
			Email:           u.email,
			Password:        "forum-demo-pass",
			PasswordConfirm: "forum-demo-pass",
		})
		if err != nil {
			log.Printf("User %s might already exist: %v", u.username, err)
			existing, _ := userRepo.GetByEmail(ctx, u.email)
			if existing != nil {
				created = append(created, existing)
			}
			continue
		}
		created = append(created, user)
		log.Printf("Created user: %s", u.username)
	}

	if len(created) < 2 {
		log.Fatal("Not enough users to seed rooms")
	}

	log.Println("Creating rooms...")
	seedRooms := []struct {
		owner int
		input service.RoomInput
		posts []string
	}{
		{0, service.RoomInput{Topic: "Python", Name: "Python Basics", Description: "Questions about getting started."}, []string{
			"What editor do you all use?",
			"Mostly vim, sometimes an IDE for debugging.",
		}},
		{1, service.RoomInput{Topic: "Go", Name: "Concurrency patterns", Description: "Channels, contexts and worker pools."}, []string{
			"When do you reach for errgroup over a WaitGroup?",
			"Whenever the first error should cancel the rest.",
		}},
		{0, service.RoomInput{Topic: "Databases", Name: "Postgres tuning"}, []string{
			"Anyone tuned work_mem for big sorts?",
		}},
	}

	for _, sr := range seedRooms {
		owner := created[sr.owner%len(created)]
		room, err := rooms.Create(ctx, owner, &sr.input)
		if err != nil {
			log.Printf("Failed to create room %s: %v", sr.input.Name, err)
			continue
		}
		log.Printf("Created room: %s", room.Name)

		// Replies rotate through the other users, which also makes them participants.
		for i, body := range sr.posts {
			author := created[(sr.owner+i)%len(created)]
			if _, err := messages.Post(ctx, author, room.ID, body); err != nil {
				log.Printf("Failed to post message in %s: %v", room.Name, err)
			}
		}
	}

	log.Println("Database seed completed!")
}
