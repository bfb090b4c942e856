package main

import (
	"errors"
	"flag"
	"io"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"
)

type tokenOptions struct {
	subject string
	role    string
	ttl     time.Duration
}

func parseTokenArgs(args []string) (tokenOptions, error) {
	var opts tokenOptions

	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.subject, "subject", "", "operator identity written to the sub claim")
	fs.StringVar(&opts.role, "role", models.RoleOperator, "operator or admin")
	fs.DurationVar(&opts.ttl, "ttl", 12*time.Hour, "token lifetime")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.subject == "" {
		return opts, errors.New("-subject is required")
	}
	if opts.role != models.RoleOperator && opts.role != models.RoleAdmin {
		return opts, errors.New("-role must be operator or admin")
	}
	if opts.ttl <= 0 {
		return opts, errors.New("-ttl must be positive")
	}
	return opts, nil
}
