package main

import (
	"fmt"
	"os"
	"time"

	"adkg-protocol/services"
	"adkg-protocol/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
)

func main() {
	var n, f int
	var silent bool

	root := &cobra.Command{
		Use:   "adkg-protocol",
		Short: "Run one asynchronous distributed key generation committee locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 4 {
				return fmt.Errorf("n must be >= 4, got %d", n)
			}
			if 3*f+1 > n {
				return fmt.Errorf("3f+1 must be <= n, got 3*%d+1 > %d", f, n)
			}
			runCommittee(n, f, silent)
			return nil
		},
	}
	root.Flags().IntVarP(&n, "n", "n", 0, "committee size")
	root.Flags().IntVarP(&f, "f", "f", 0, "byzantine tolerance")
	root.Flags().BoolVar(&silent, "silent", false, "disable logs and print only results")
	root.MarkFlagRequired("n")
	root.MarkFlagRequired("f")

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("bad arguments")
	}
}

func runCommittee(n, f int, silent bool) {
	if _, err := maxprocs.Set(); err != nil {
		log.Warn().Err(err).Msg("failed to set GOMAXPROCS")
	}

	utils.SetupLogger()
	if silent {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}

	logN := services.CeilLog2(n)
	log.Info().Str("layer", "ADKG").Int("n", n).Int("f", f).Msg("starting ADKG committee")

	honestCount := n - f
	network := services.NewNetwork[services.Message]()
	nodes := make([]*Node, honestCount)
	for id := 0; id < honestCount; id++ {
		nodes[id] = NewNode(id, n, f, logN, true, network)
		network.Register(id, nodes[id].Inbox())
	}

	started := time.Now()
	results := make([]services.AdkgResult, honestCount)

	var group errgroup.Group
	for id := 0; id < honestCount; id++ {
		id := id
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("participant %d panicked: %v", id, r)
				}
			}()
			nodes[id].Start()
			results[id] = <-nodes[id].Result()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("committee failed")
	}

	for id := 0; id < honestCount; id++ {
		res := results[id]
		fmt.Printf("client_id:%d status:GET_SK_PK sk:%s pk:%s elapsed_ms:%d\n",
			res.ID, res.SK, res.PK, time.Since(started).Milliseconds())
	}

	if !silent {
		log.Info().Str("layer", "ADKG").Msg("all honest participants decided")
	}
	os.Exit(0)
}
