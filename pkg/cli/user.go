package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/cli/config"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdUser() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage dashboard accounts",
		Commands: []*cli.Command{
			cmdUserCreate(),
			cmdUserPassword(),
		},
	}
}

func passwordFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "password",
		Usage:       "Password of the account (at least 8 characters)",
		Required:    true,
		Sources:     cli.EnvVars("CISBOARD_USER_PASSWORD"),
		Destination: dst,
	}
}

func withRepository(ctx context.Context, repoCfg *config.Repository, fn func(uc *usecase.UseCases) error) error {
	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to initialize repository")
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logging.Default().Error("failed to close repository", "error", err)
		}
	}()
	return fn(usecase.New(repo))
}

func cmdUserCreate() *cli.Command {
	var repoCfg config.Repository
	var input usecase.CreateUserInput
	var role string
	var orgSlug string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Email address used to log in",
			Required:    true,
			Destination: &input.Email,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Display name",
			Destination: &input.Name,
		},
		passwordFlag(&input.Password),
		&cli.StringFlag{
			Name:        "role",
			Usage:       "Role (platform_admin, org_admin, member)",
			Value:       string(types.UserRolePlatformAdmin),
			Destination: &role,
		},
		&cli.StringFlag{
			Name:        "org",
			Usage:       "Organization slug (required for org_admin and member)",
			Destination: &orgSlug,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "create",
		Usage: "Create an account, by default a platform admin",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			r, err := types.ParseUserRole(role)
			if err != nil {
				return err
			}
			input.Role = r

			return withRepository(ctx, &repoCfg, func(uc *usecase.UseCases) error {
				if orgSlug != "" {
					org, err := uc.Organization.GetOrganizationBySlug(ctx, orgSlug)
					if err != nil {
						return err
					}
					input.OrganizationID = org.ID
				}

				u, err := uc.User.CreateUser(ctx, input)
				if err != nil {
					return err
				}
				_, _ = color.New(color.FgGreen, color.Bold).Fprint(os.Stdout, "created ")
				_, _ = fmt.Fprintf(os.Stdout, "%s (%s) id=%s\n", u.Email, u.Role, u.ID)
				return nil
			})
		},
	}
}

func cmdUserPassword() *cli.Command {
	var repoCfg config.Repository
	var email string
	var password string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Email address of the account",
			Required:    true,
			Destination: &email,
		},
		passwordFlag(&password),
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "password",
		Usage: "Reset the password of an account",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return withRepository(ctx, &repoCfg, func(uc *usecase.UseCases) error {
				u, err := uc.User.GetUserByEmail(ctx, email)
				if err != nil {
					return err
				}
				if err := uc.User.ChangePassword(ctx, u.ID, password); err != nil {
					return err
				}
				_, _ = color.New(color.FgGreen, color.Bold).Fprint(os.Stdout, "updated ")
				_, _ = fmt.Fprintf(os.Stdout, "password of %s\n", u.Email)
				return nil
			})
		},
	}
}
