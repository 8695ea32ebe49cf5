package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yogigan/go-user-auth-service/internal/tools/migrate"
	"github.com/yogigan/go-user-auth-service/internal/tools/seed"
)

func main() {
	root := &cobra.Command{
		Use:   "dbtool",
		Short: "Database operations for the user auth service",
	}
	root.AddCommand(migrate.NewRootCommand(), seed.NewRootCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
