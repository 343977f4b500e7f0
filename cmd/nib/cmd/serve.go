package cmd

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/nib-lang/nib/repl"
)

// serveCmd promotes the teacher's "server <port>" positional-argument mode
// (main/main.go) to a named cobra subcommand: one REPL session per TCP
// connection, each with its own Environment so connections share no
// interpreter state (spec section 5's concurrency model disallows shared
// mutable state across evaluator instances).
var serveCmd = &cobra.Command{
	Use:   "serve <port>",
	Short: "serve REPL sessions over TCP, one per connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		ln, err := net.Listen("tcp", ":"+args[0])
		if err != nil {
			return err
		}
		defer ln.Close()
		fmt.Printf("nib: listening on %s\n", ln.Addr())

		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			go serveConn(conn)
		}
	},
}

func serveConn(conn net.Conn) {
	defer conn.Close()
	fmt.Printf("nib: client connected from %s\n", conn.RemoteAddr())
	r := repl.NewRepl("Nib", nibVersion, nibAuthor, "----------------------------------------", "MIT", "nib> ")
	r.Start(conn, conn)
	fmt.Printf("nib: client disconnected from %s\n", conn.RemoteAddr())
}
