package db

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/willibrandon/irisconns/internal/conns"
)

func TestConnString(t *testing.T) {
	p := conns.Params{
		Hostname:  "db.example.com",
		Port:      5433,
		Namespace: "USER",
		Username:  "o'brien",
		Password:  `p@ss w\rd'`,
	}

	got := ConnString(p, "")
	want := `host='db.example.com' port=5433 dbname='user' sslmode='prefer' user='o\'brien' password='p@ss w\\rd\''`
	if got != want {
		t.Errorf("ConnString() =\n%s\nwant\n%s", got, want)
	}

	cfg, err := pgxpool.ParseConfig(got)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.ConnConfig.User != p.Username {
		t.Errorf("User = %q, want %q", cfg.ConnConfig.User, p.Username)
	}
	if cfg.ConnConfig.Password != p.Password {
		t.Errorf("Password = %q, want %q", cfg.ConnConfig.Password, p.Password)
	}
	if cfg.ConnConfig.Database != "user" {
		t.Errorf("Database = %q, want user", cfg.ConnConfig.Database)
	}
	if cfg.ConnConfig.Port != 5433 {
		t.Errorf("Port = %d, want 5433", cfg.ConnConfig.Port)
	}
}

func TestConnString_OmitsEmptyCredentials(t *testing.T) {
	got := ConnString(conns.Params{Hostname: "h", Port: 1, Namespace: "N"}, "disable")
	want := `host='h' port=1 dbname='n' sslmode='disable'`
	if got != want {
		t.Errorf("ConnString() = %s, want %s", got, want)
	}
}
