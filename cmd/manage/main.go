package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lorenamitrea/LocalLibrary/pkg/config"
	"github.com/lorenamitrea/LocalLibrary/pkg/database"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/users"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	userService := users.NewService(db)

	usernameFlag := &cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true}
	passwordFlag := &cli.StringFlag{
		Name:     "password",
		Usage:    "at least 8 characters",
		EnvVars:  []string{"LOCALLIBRARY_PASSWORD"},
		Required: true,
	}

	app := &cli.App{
		Name:  "manage",
		Usage: "manage library accounts",
		Commands: []*cli.Command{
			{
				Name:  "createuser",
				Usage: "create an account",
				Flags: []cli.Flag{
					usernameFlag,
					passwordFlag,
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "role", Value: models.RolePatron, Usage: "librarian or patron"},
				},
				Action: func(c *cli.Context) error {
					opts := users.CreateUserOptions{
						Username: c.String("username"),
						Password: c.String("password"),
						RoleName: c.String("role"),
					}
					if email := c.String("email"); email != "" {
						opts.Email = &email
					}
					user, err := userService.Create(c.Context, opts)
					if err != nil {
						return err
					}
					log.Info("user created", logger.Data{"user_id": user.ID, "username": user.Username, "role": user.Role.Name})
					return nil
				},
			},
			{
				Name:  "setrole",
				Usage: "move an account to another role",
				Flags: []cli.Flag{
					usernameFlag,
					&cli.StringFlag{Name: "role", Required: true},
				},
				Action: func(c *cli.Context) error {
					user, err := userService.RetrieveByUsername(c.Context, c.String("username"))
					if err != nil {
						return err
					}
					if err := userService.SetRole(c.Context, user, c.String("role")); err != nil {
						return err
					}
					log.Info("role changed", logger.Data{"user_id": user.ID, "role": user.Role.Name})
					return nil
				},
			},
			{
				Name:  "setpassword",
				Usage: "change an account's password",
				Flags: []cli.Flag{usernameFlag, passwordFlag},
				Action: func(c *cli.Context) error {
					user, err := userService.RetrieveByUsername(c.Context, c.String("username"))
					if err != nil {
						return err
					}
					return userService.ResetPassword(c.Context, user, c.String("password"))
				},
			},
			{
				Name:  "deactivate",
				Usage: "stop an account from logging in",
				Flags: []cli.Flag{usernameFlag},
				Action: func(c *cli.Context) error {
					user, err := userService.RetrieveByUsername(c.Context, c.String("username"))
					if err != nil {
						return err
					}
					return userService.SetActive(c.Context, user, false)
				},
			},
			{
				Name:  "users",
				Usage: "list accounts",
				Action: func(c *cli.Context) error {
					list, err := userService.List(c.Context)
					if err != nil {
						return err
					}
					for _, u := range list {
						state := "active"
						if !u.IsActive {
							state = "inactive"
						}
						fmt.Printf("%-20s %-10s %s\n", u.Username, u.Role.Name, state)
					}
					return nil
				},
			},
			{
				Name:  "roles",
				Usage: "list roles and their permissions",
				Action: func(c *cli.Context) error {
					roles, err := userService.ListRoles(c.Context)
					if err != nil {
						return err
					}
					for _, r := range roles {
						perms := make([]string, 0, len(r.Permissions))
						for _, p := range r.Permissions {
							perms = append(perms, p.String())
						}
						fmt.Printf("%-10s %s\n", r.Name, strings.Join(perms, ", "))
					}
					return nil
				},
			},
		},
	}
	err = app.Run(os.Args)
	if closeErr := db.Close(); closeErr != nil {
		log.Err(closeErr).Error("database close error")
	}
	if err != nil {
		log.Err(err).Fatal("app run error")
	}
}
