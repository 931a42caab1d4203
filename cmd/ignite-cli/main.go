// Command ignite-cli is the request/response client of spec.md §6.3: set,
// get, and remove keys against a running ignite-server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ignitedb/ignite/internal/client"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	defaultServerAddress = "127.0.0.1:4000"
	dialTimeout          = 5 * time.Second
)

func main() {
	var addr string

	root := &cobra.Command{
		Use:   "ignite-cli",
		Short: "A key-value store client",
	}
	root.PersistentFlags().StringVar(&addr, "addr", defaultServerAddress, "Sets the server address (IP:PORT)")

	root.AddCommand(
		setCmd(&addr),
		getCmd(&addr),
		rmCmd(&addr),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set the value of a string key to a string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*addr, dialTimeout)
			return c.Set(args[0], args[1])
		},
	}
}

func getCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Get the string value of a given string key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*addr, dialTimeout)
			value, ok, err := c.Get(args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Key not found")
				return nil
			}
			fmt.Println(value)
			return nil
		},
	}
}

func rmCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm KEY",
		Short: "Remove a given key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*addr, dialTimeout)
			if err := c.Remove(args[0]); err != nil {
				if errors.IsKeyNotFound(err) {
					return fmt.Errorf("Key not found")
				}
				return err
			}
			return nil
		},
	}
}
