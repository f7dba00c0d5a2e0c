// todoctl is a small operator tool for the todo service. Its only
// subcommand today is "register", which creates an account directly in
// the database, bypassing the HTTP API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"todoapp/internal/common"
	"todoapp/internal/server/auth"
	"todoapp/internal/server/models"
	"todoapp/internal/server/repositories/repomanager"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func usage() {
	fmt.Fprintf(os.Stderr, "usage: todoctl register -d <dsn> <username>\n")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 || os.Args[1] != "register" {
		usage()
	}

	fs := flag.NewFlagSet("register", flag.ExitOnError)
	dsn := fs.String("d", os.Getenv("DATABASE_DSN"), "database dsn")
	fs.Parse(os.Args[2:])

	if fs.NArg() != 1 || *dsn == "" {
		usage()
	}
	username := fs.Arg(0)

	if err := register(context.Background(), *dsn, username); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Println("Success!")
}

func register(ctx context.Context, dsn, username string) error {
	fmt.Println("Enter password")
	password, err := readPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	if len(password) == 0 {
		return errors.New("password must not be empty")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	hash, err := auth.NewHasher(bcrypt.DefaultCost).Hash(string(password))
	if err != nil {
		return err
	}

	user, err := m.Users(db).Create(ctx, &models.User{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorLoginAlreadyExists) {
			return fmt.Errorf("user %q already exists", username)
		}
		return err
	}

	fmt.Printf("created user %s (id %d)\n", user.Username, user.ID)
	return nil
}
