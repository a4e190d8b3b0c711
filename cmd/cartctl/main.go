// Command cartctl drives a storefront cart from the terminal. The cart id is
// kept in a state directory so successive invocations share one cart.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(defaultBackend).Execute(); err != nil {
		os.Exit(1)
	}
}
