package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bazaargen/bazaargen/internal/config"
	"github.com/bazaargen/bazaargen/internal/db"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/spf13/cobra"
)

const dataDirName = ".bazaar"

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize a new card workspace",
	Long:    `Creates the local .bazaar directory, the SQLite card database and an author id.`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		if _, err := os.Stat(filepath.Join(baseDir, dataDirName)); err == nil {
			output.Warning("%s/ already exists", dataDirName)
			return nil
		}

		database, err := db.Initialize(baseDir)
		if err != nil {
			output.Error("failed to initialize database: %v", err)
			return err
		}
		defer database.Close()

		fmt.Printf("INITIALIZED %s/\n", dataDirName)

		// Ignore the data dir when inside a git checkout
		if _, err := os.Stat(filepath.Join(baseDir, ".git")); err == nil {
			addToGitignore(filepath.Join(baseDir, ".gitignore"))
		}

		authorID, err := config.EnsureAuthor(baseDir)
		if err != nil {
			output.Error("failed to create author id: %v", err)
			return err
		}
		fmt.Printf("Author: %s\n", authorID)

		if name, _ := cmd.Flags().GetString("author"); name != "" {
			if err := config.Set(baseDir, config.KeyAuthorName, name); err != nil {
				output.Error("failed to set author name: %v", err)
				return err
			}
		}
		return nil
	},
}

func addToGitignore(path string) {
	content, _ := os.ReadFile(path)
	if strings.Contains(string(content), dataDirName+"/") {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		f.WriteString("\n")
	}
	f.WriteString(dataDirName + "/\n")
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("author", "", "Display name attached to your cards")
}
