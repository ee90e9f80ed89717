// Command admin manages groups, users and posts from the command line.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/service"
)

const usageText = `Usage:
  admin create-group <slug> <title> [description]  - Create a group
  admin delete-group <slug>                        - Delete a group; its posts stay, ungrouped
  admin list-groups                                - List all groups
  admin list-users                                 - List users
  admin delete-user <username>                     - Delete a user with their posts, comments and follows
  admin delete-post <id>                           - Delete a post with its comments and image`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usageText)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepository(db)
	images := service.NewImageService(cfg)

	a := &admin{
		groups: service.NewGroupService(groupRepo),
		users:  service.NewUserService(userRepo).WithImages(images),
		posts:  service.NewPostService(postRepo, groupRepo, images),
	}

	if err := a.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		if models.IsNotFound(err) {
			fmt.Printf("Not found: %v\n", err)
			os.Exit(2)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

type admin struct {
	groups *service.GroupService
	users  *service.UserService
	posts  *service.PostService
}

func (a *admin) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "create-group":
		if len(args) < 2 {
			return fmt.Errorf("usage: admin create-group <slug> <title> [description]")
		}
		g, err := a.groups.CreateGroup(ctx, service.CreateGroupInput{
			Slug:        args[0],
			Title:       args[1],
			Description: strings.Join(args[2:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created group %q (slug: %s, ID: %d)\n", g.Title, g.Slug, g.ID)

	case "delete-group":
		if len(args) < 1 {
			return fmt.Errorf("usage: admin delete-group <slug>")
		}
		if err := a.groups.DeleteGroup(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted group %s\n", args[0])

	case "list-groups":
		groups, err := a.groups.ListGroups(ctx)
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("No groups found")
			return nil
		}
		for _, g := range groups {
			fmt.Printf("ID: %d | Slug: %s | Title: %s\n", g.ID, g.Slug, g.Title)
		}

	case "list-users":
		users, err := a.users.ListUsers(ctx, 100, 0)
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("ID: %d | Username: %s | Email: %s\n", u.ID, u.Username, u.Email)
		}

	case "delete-user":
		if len(args) < 1 {
			return fmt.Errorf("usage: admin delete-user <username>")
		}
		if err := a.users.DeleteUser(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted user %s\n", args[0])

	case "delete-post":
		if len(args) < 1 {
			return fmt.Errorf("usage: admin delete-post <id>")
		}
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid post id %q", args[0])
		}
		post, err := a.posts.GetPost(ctx, uint(id))
		if err != nil {
			return err
		}
		// DeletePost only lets authors delete, so act as the author.
		if err := a.posts.DeletePost(ctx, post.ID, post.AuthorID); err != nil {
			return err
		}
		fmt.Printf("Deleted post %d by %s\n", post.ID, post.Author.Username)

	default:
		fmt.Println(usageText)
		return fmt.Errorf("unknown command: %s", command)
	}
	return nil
}
