package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/offline"
	"github.com/noah-isme/sams-api/pkg/client"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type apiClient interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	Mark(ctx context.Context, req dto.MarkAttendanceRequest) (*models.Attendance, error)
	offline.Syncer
}

type commandLine struct {
	api     apiClient
	cache   *offline.Cache
	persist func() error
	logger  *zap.Logger
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL - start a session, password is prompted")
	fmt.Fprintln(cli.out, "  logout - end the session")
	fmt.Fprintln(cli.out, "  mark -file SHEET.json - send an attendance sheet, cached when the server is unreachable")
	fmt.Fprintln(cli.out, "  pending - list cached sheets")
	fmt.Fprintln(cli.out, "  flush - send every cached sheet in one call")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "login":
		return cli.login(ctx, args[2:])
	case "logout":
		if err := cli.api.Logout(ctx); err != nil {
			cli.logger.Warn("server logout failed", zap.Error(err))
		}
		return cli.persist()
	case "mark":
		return cli.mark(ctx, args[2:])
	case "pending":
		pending, err := cli.cache.Pending()
		if err != nil {
			return err
		}
		for _, sheet := range pending {
			fmt.Fprintf(cli.out, "%s %s section %d: %d students\n", sheet.Date, sheet.SubjectID, sheet.Section, len(sheet.Students))
		}
		fmt.Fprintf(cli.out, "%d pending\n", len(pending))
		return nil
	case "flush":
		synced, err := cli.cache.Flush(ctx, cli.api)
		if errors.Is(err, offline.ErrNothingPending) {
			fmt.Fprintln(cli.out, "nothing to flush")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "synced %d sheets\n", synced)
		return cli.persist()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("login", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	email := cmd.String("email", "", "Login email. The password will be prompted next.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		cmd.Usage()
		return errHelp
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}

	res, err := cli.api.Login(ctx, *email, string(pwd))
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "logged in as %s (%s)\n", res.User.Email, res.User.Role)
	return cli.persist()
}

func (cli *commandLine) mark(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("mark", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	file := cmd.String("file", "", "JSON file holding one attendance sheet.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		cmd.Usage()
		return errHelp
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}
	var sheet dto.MarkAttendanceRequest
	if err := json.Unmarshal(raw, &sheet); err != nil {
		return fmt.Errorf("decode sheet: %w", err)
	}

	if _, err := cli.api.Mark(ctx, sheet); err != nil {
		if !client.Retryable(err) {
			return err
		}
		cli.logger.Warn("mark failed, caching sheet", zap.Error(err))
		if cacheErr := cli.cache.Add(sheet); cacheErr != nil {
			return cacheErr
		}
		fmt.Fprintln(cli.out, "server unreachable, sheet cached for the next flush")
		return cli.persist()
	}
	fmt.Fprintln(cli.out, "attendance stored")
	return cli.persist()
}
