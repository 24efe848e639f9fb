package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/noah-isme/sams-api/internal/models"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type accountService interface {
	CreateAccount(ctx context.Context, user *models.User, password string) error
	ResetPassword(ctx context.Context, email, password string) error
}

type commandLine struct {
	accounts accountService
	migrate  func() error
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate - apply pending database migrations")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME -phone PHONE -role ROLE [-department DEPT] - create an account, password is prompted")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset a user's password, password is prompted")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if err := cli.migrate(); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "migrations applied")
		return nil
	case "adduser":
		return cli.addUser(ctx, args[2:])
	case "resetpassword":
		return cli.resetPassword(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) addUser(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	email := cmd.String("email", "", "Login email.")
	name := cmd.String("name", "", "Display name.")
	phone := cmd.String("phone", "", "Contact phone.")
	role := cmd.String("role", string(models.RoleAdmin), "One of ADMIN, HOD, FACULTY, CLASS_COORDINATOR.")
	department := cmd.String("department", "", "Department code, required for HOD, FACULTY and CLASS_COORDINATOR.")
	designation := cmd.String("designation", "", "Optional designation.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *email == "" || *name == "" {
		cmd.Usage()
		return errHelp
	}

	user := &models.User{
		Name:  strings.TrimSpace(*name),
		Email: *email,
		Phone: *phone,
		Role:  models.UserRole(strings.ToUpper(*role)),
	}
	profile, err := staffProfile(user.Role, *department, *designation)
	if err != nil {
		return err
	}
	user.Profile = profile

	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}
	if err := cli.accounts.CreateAccount(ctx, user, pwd); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created %s account %s\n", user.Role, user.Email)
	return nil
}

func (cli *commandLine) resetPassword(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	email := cmd.String("email", "", "The user's email. The password will be prompted next.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		cmd.Usage()
		return errHelp
	}

	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}
	if err := cli.accounts.ResetPassword(ctx, *email, pwd); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "password updated for %s\n", *email)
	return nil
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(pwd), nil
}

// staffProfile builds the profile for operator-created accounts. Students
// enrol through registration only.
func staffProfile(role models.UserRole, department, designation string) (models.Profile, error) {
	needsDepartment := func() error {
		if strings.TrimSpace(department) == "" {
			return fmt.Errorf("-department is required for role %s", role)
		}
		return nil
	}
	department = strings.ToUpper(strings.TrimSpace(department))

	switch role {
	case models.RoleAdmin:
		return models.AdminProfile{Designation: designation}, nil
	case models.RoleHOD:
		if err := needsDepartment(); err != nil {
			return nil, err
		}
		return models.HODProfile{Department: department, Designation: designation}, nil
	case models.RoleFaculty:
		if err := needsDepartment(); err != nil {
			return nil, err
		}
		return models.FacultyProfile{Department: department, Designation: designation}, nil
	case models.RoleClassCoordinator:
		if err := needsDepartment(); err != nil {
			return nil, err
		}
		return models.ClassCoordinatorProfile{Department: department, Designation: designation}, nil
	default:
		return nil, fmt.Errorf("role %q cannot be created from the command line", role)
	}
}
