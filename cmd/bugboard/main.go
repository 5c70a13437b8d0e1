// Command bugboard exercises the BugBoard backend from a terminal: it logs
// in, then runs one of the issue or admin operations with the session held
// in-process, standing in for the windowed client.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/bugboard/go-bugboard/admin"
	"github.com/bugboard/go-bugboard/auth"
	"github.com/bugboard/go-bugboard/internal/config"
	"github.com/bugboard/go-bugboard/issues"
	"github.com/bugboard/go-bugboard/session"
	"github.com/bugboard/go-bugboard/token"
	"github.com/bugboard/go-bugboard/users"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	global := flag.NewFlagSet("bugboard", flag.ContinueOnError)
	email := global.String("email", "", "account email")
	password := global.String("password", "", "account password")
	global.SetInterspersed(false)
	if err := global.Parse(args); err != nil {
		return err
	}
	positional := global.Args()
	if len(positional) == 0 {
		return errors.New("usage: bugboard --email ... --password ... <whoami|issues|report|modify|upload|download|register> [flags]")
	}

	displayAppname("BugBoard")

	store := session.NewStore()
	if err := login(ctx, cfg, store, *email, *password); err != nil {
		return err
	}

	issueClient := issues.NewClient(cfg.BaseURL, store, issues.WithTimeouts(issues.Timeouts{
		List:     cfg.Timeouts.List,
		Mutate:   cfg.Timeouts.Mutate,
		Upload:   cfg.Timeouts.Upload,
		Download: cfg.Timeouts.Download,
	}))

	command, commandArgs := positional[0], positional[1:]
	switch command {
	case "whoami":
		return whoami(store)
	case "issues":
		return listIssues(ctx, issueClient, commandArgs)
	case "report":
		return reportIssue(ctx, issueClient, commandArgs)
	case "modify":
		return modifyIssue(ctx, issueClient, commandArgs)
	case "upload":
		return uploadImage(ctx, issueClient, commandArgs)
	case "download":
		return downloadImage(ctx, issueClient, commandArgs)
	case "register":
		return registerUser(ctx, cfg, store, commandArgs)
	default:
		return errors.Errorf("unknown command %q", command)
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func login(ctx context.Context, cfg *config.Config, store *session.Store, email, password string) error {
	if email == "" || password == "" {
		return errors.New("--email and --password are required")
	}
	client := auth.NewClient(cfg.BaseURL, auth.WithTimeout(cfg.Timeouts.Login))
	result, err := client.Login(ctx, email, password)
	if err != nil {
		return errors.Wrap(err, "login")
	}
	store.Set(result.UserID, result.Role, result.Token, email)
	log.Info().Int64("userID", result.UserID).Str("role", result.Role).Msg("logged in")
	return nil
}

func whoami(store *session.Store) error {
	userID, _ := store.UserID()
	fmt.Printf("user:  %d (%s)\n", userID, store.Email())
	fmt.Printf("role:  %s (admin=%v)\n", store.Role(), store.IsAdmin())
	bearer, _ := store.BearerToken()
	fmt.Printf("token: %s\n", token.Redact(bearer))
	if claims, err := token.Claims(bearer); err == nil {
		printJSON(claims)
	}
	return nil
}

func listIssues(ctx context.Context, client *issues.Client, args []string) error {
	fs := flag.NewFlagSet("issues", flag.ContinueOnError)
	sortKey := fs.String("sort", "createdAt", "sort key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	list, err := client.List(ctx, *sortKey)
	if err != nil {
		return err
	}
	printJSON(list)
	return nil
}

func reportIssue(ctx context.Context, client *issues.Client, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	title := fs.String("title", "", "issue title")
	description := fs.String("description", "", "issue description")
	typ := fs.String("type", string(issues.TypeBug), "issue type")
	priority := fs.String("priority", "", "issue priority (empty for none)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := client.Create(ctx, *title, *description, issues.Type(*typ), issues.Priority(*priority))
	if err != nil {
		return err
	}
	fmt.Printf("created issue %d\n", id)
	return nil
}

func modifyIssue(ctx context.Context, client *issues.Client, args []string) error {
	fs := flag.NewFlagSet("modify", flag.ContinueOnError)
	id := fs.Int64("id", 0, "issue id")
	title := fs.String("title", "", "new title")
	description := fs.String("description", "", "new description")
	typ := fs.String("type", "", "new type")
	priority := fs.String("priority", "", "new priority")
	state := fs.String("state", "", "new state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	err := client.Modify(ctx, *id, issues.ModifyFields{
		Title:       *title,
		Description: *description,
		Type:        issues.Type(*typ),
		Priority:    issues.Priority(*priority),
		State:       *state,
	})
	if err != nil {
		return err
	}
	fmt.Printf("modified issue %d\n", *id)
	return nil
}

func uploadImage(ctx context.Context, client *issues.Client, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	id := fs.Int64("id", 0, "issue id")
	file := fs.String("file", "", "image file (.png, .jpg or .webp)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := client.UploadImage(ctx, *id, *file)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded, stored path: %s\n", path)
	return nil
}

func downloadImage(ctx context.Context, client *issues.Client, args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	id := fs.Int64("id", 0, "issue id for the canonical path")
	url := fs.String("url", "", "explicit image URL, tried after the canonical path")
	out := fs.String("out", "image.bin", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := client.DownloadImageWithFallback(ctx, *id, *url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return errors.Wrap(err, "write image")
	}
	fmt.Printf("wrote %d bytes to %s\n", len(data), *out)
	return nil
}

func registerUser(ctx context.Context, cfg *config.Config, store *session.Store, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("new-email", "", "email of the account to create")
	password := fs.String("new-password", "", "password of the account to create")
	role := fs.String("role", string(users.RoleUser), "role of the account to create (ADMIN or USER)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	client := admin.NewClient(cfg.BaseURL, store, admin.WithTimeout(cfg.Timeouts.Register))
	if err := client.RegisterUser(ctx, *email, *password, users.Role(*role)); err != nil {
		return err
	}
	fmt.Printf("registered %s as %s\n", *email, *role)
	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Err(err).Msg("encode output")
		return
	}
	fmt.Println(string(data))
}
