//go:build ignore

package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"
)

// gen.go prints a random valid -n/-f invocation line for the ADKG binary,
// or an invocation built from explicit n and f passed as arguments.
func main() {
	rand.Seed(time.Now().UnixNano())

	var n, f int

	if len(os.Args) < 3 {
		n = rand.Intn(10) + 4 // 4 to 13

		maxF := (n - 1) / 3
		if maxF > 0 {
			f = rand.Intn(maxF + 1)
		}
	} else {
		n, _ = strconv.Atoi(os.Args[1])
		f, _ = strconv.Atoi(os.Args[2])
	}

	fmt.Printf("go run . -n %d -f %d\n", n, f)
}
