// simulate 离线跑多局 bot 对局，打印胜负和得分统计
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"startup-tycoon/bot"
	"startup-tycoon/game"
	"startup-tycoon/logger"

	"github.com/fatih/color"
)

type display struct {
	title   *color.Color
	win     *color.Color
	stuck   *color.Color
	fail    *color.Color
	info    *color.Color
	verbose bool
}

func newDisplay(verbose bool) *display {
	return &display{
		title:   color.New(color.FgCyan, color.Bold),
		win:     color.New(color.FgGreen, color.Bold),
		stuck:   color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
		info:    color.New(color.FgWhite),
		verbose: verbose,
	}
}

type summary struct {
	completed int
	stuck     int
	failed    int
	wins      map[string]int
	scoreSum  map[string]int
	turns     int
}

func main() {
	games := flag.Int("games", 100, "number of games to simulate")
	players := flag.Int("players", 4, "players per game (3-7)")
	seed := flag.Uint64("seed", 0, "base seed, 0 picks a random one")
	verbose := flag.Bool("v", false, "print every game")
	logLevel := flag.String("log-level", "error", "log level")
	flag.Parse()

	log, err := logger.New(*logLevel, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	base := *seed
	if base == 0 {
		if base, err = game.NewSeed(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	d := newDisplay(*verbose)
	d.title.Printf("Startup Tycoon simulation: %d games, %d players, seed %d\n", *games, *players, base)

	s := summary{wins: map[string]int{}, scoreSum: map[string]int{}}
	for i := 0; i < *games; i++ {
		gameSeed := base + uint64(i)
		res, err := bot.Simulate(*players, gameSeed, log)
		switch {
		case err == nil:
			s.completed++
			s.turns += res.Turns
			s.wins[res.Winner]++
			for id, score := range res.Scores {
				s.scoreSum[id] += score
			}
			if d.verbose {
				d.win.Printf("#%-4d ", i+1)
				d.info.Printf("seed=%d turns=%d winner=%s scores=%v\n", gameSeed, res.Turns, res.Winner, res.Scores)
			}
		case errors.Is(err, bot.ErrNoLegalMove):
			s.stuck++
			if d.verbose {
				d.stuck.Printf("#%-4d seed=%d stuck: %v\n", i+1, gameSeed, err)
			}
		default:
			s.failed++
			d.fail.Printf("#%-4d seed=%d failed: %v\n", i+1, gameSeed, err)
		}
	}

	d.print(s, bot.PlayerIDs(*players))
	if s.failed > 0 {
		os.Exit(1)
	}
}

func (d *display) print(s summary, ids []string) {
	d.title.Println("\n== Summary ==")
	d.info.Printf("completed %d, stuck %d, failed %d\n", s.completed, s.stuck, s.failed)
	if s.completed == 0 {
		return
	}
	d.info.Printf("average turns %.1f\n", float64(s.turns)/float64(s.completed))

	sort.SliceStable(ids, func(i, j int) bool { return s.wins[ids[i]] > s.wins[ids[j]] })
	for rank, id := range ids {
		c := d.info
		if rank == 0 {
			c = d.win
		}
		c.Printf("%-6s wins %4d (%5.1f%%)  avg score %+.2f\n",
			id,
			s.wins[id],
			100*float64(s.wins[id])/float64(s.completed),
			float64(s.scoreSum[id])/float64(s.completed))
	}
}
