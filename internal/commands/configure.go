// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tombee/conductor-air/internal/config"
	"github.com/tombee/conductor-air/internal/secrets"
)

func newConfigureCommand() *cobra.Command {
	var (
		instanceURL string
		useKeychain bool
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure the AIR console connection",
		Long: `Write the connector configuration file. The API token is read from
an interactive prompt (never from argv, which would leak it into shell
history and process listings).

With --keychain the token is stored in the OS keychain and the config
file only carries a keychain: reference.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, instanceURL, useKeychain)
		},
	}

	cmd.Flags().StringVar(&instanceURL, "instance-url", "", "AIR console URL (prompted when omitted)")
	cmd.Flags().BoolVar(&useKeychain, "keychain", false, "store the token in the OS keychain")

	return cmd
}

func runConfigure(cmd *cobra.Command, instanceURL string, useKeychain bool) error {
	reader := bufio.NewReader(cmd.InOrStdin())

	if instanceURL == "" {
		cmd.Print("AIR console URL: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		instanceURL = strings.TrimSpace(line)
	}
	if instanceURL == "" {
		return fmt.Errorf("instance URL is required")
	}

	token, err := promptToken(cmd)
	if err != nil {
		return err
	}

	cfg := config.Default()
	cfg.InstanceURL = instanceURL

	if useKeychain {
		reference := "keychain:api-token"
		if err := secrets.DefaultResolver().Store(cmd.Context(), reference, token); err != nil {
			return fmt.Errorf("storing token in keychain: %w", err)
		}
		cfg.Token = reference
	} else {
		cfg.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	path := rootFlags.configPath
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	cmd.Printf("Configuration written to %s\n", path)
	return nil
}

// promptToken reads the API token without echo when stdin is a terminal,
// and falls back to a plain read otherwise (pipes, tests).
func promptToken(cmd *cobra.Command) (string, error) {
	cmd.Print("API token: ")

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", err
		}
		token := strings.TrimSpace(string(raw))
		if token == "" {
			return "", fmt.Errorf("API token is required")
		}
		return token, nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", fmt.Errorf("API token is required")
	}
	return token, nil
}
