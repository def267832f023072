// Command topicgen appends synthetic topic records to an NDJSON file (or
// stdout) so that podinsights --follow has something to pick up.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"podinsights/internal/model"
)

type company struct {
	name     string
	sectors  []string
	keywords []string
}

var companies = []company{
	{"NVIDIA", []string{"AI Chips", "Data Center", "Cloud AI"}, []string{"Blackwell", "CUDA", "Inference"}},
	{"Microsoft", []string{"Copilot", "Azure", "Enterprise AI"}, []string{"OpenAI", "Office 365", "Security"}},
	{"Apple", []string{"AI", "iOS 18", "Vision Pro"}, []string{"Privacy", "Edge Computing", "Services"}},
	{"Google", []string{"Gemini Ultra", "Search", "Google Cloud"}, []string{"LLM", "Workspace", "Ads"}},
	{"Salesforce", []string{"CRM", "Agentforce", "Enterprise AI"}, []string{"Automation", "Earnings", "Data Cloud"}},
}

var podcasts = []string{
	"Lex Fridman Podcast", "No Priors: Artificial Intelligence", "WSJ Podcasts",
	"The AI Podcast", "Acquired", "Decoder with Nilay Patel",
}

var headlines = []string{
	"%s doubles down on %s",
	"Analysts debate %s's %s roadmap",
	"%s reports momentum in %s",
	"Why %s is betting on %s",
}

func main() {
	var (
		rate        float64
		outPath     string
		count       int
		durationStr string
		seed        uint64
	)
	flag.Float64Var(&rate, "rate", 1.0, "records per second")
	flag.StringVar(&outPath, "out", "", "append to this NDJSON file instead of stdout")
	flag.IntVar(&count, "count", 0, "stop after N records (0 = until interrupted)")
	flag.StringVar(&durationStr, "duration", "", "optional run duration (e.g. 30s, 2m)")
	flag.Uint64Var(&seed, "seed", 0, "random seed (0 = time based)")
	flag.Parse()

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))

	var deadline time.Time
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		deadline = time.Now().Add(d)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
		fmt.Fprintf(os.Stderr, "generating topics -> %s at %.2f/s\n", outPath, rate)
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	if rate <= 0 {
		rate = 1
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	for n := 0; count == 0 || n < count; n++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return
		}
		select {
		case <-sig:
			return
		case <-ticker.C:
		}
		b, err := json.Marshal(randomTopic(rng))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		w.Write(b)
		w.WriteByte('\n')
		_ = w.Flush()
	}
}

func randomTopic(rng *rand.Rand) model.Topic {
	c := companies[rng.IntN(len(companies))]
	sector := c.sectors[rng.IntN(len(c.sectors))]
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	title := fmt.Sprintf(headlines[rng.IntN(len(headlines))], c.name, sector)
	start := rng.IntN(50*60) + 60
	end := start + 90 + rng.IntN(180)
	tags := append([]string{c.name}, pick(rng, c.sectors, 2)...)
	tags = append(tags, pick(rng, c.keywords, 2)...)
	return model.Topic{
		ID:      strings.ToLower(c.name) + "-" + id.String()[:13],
		Company: c.name,
		Topic:   title,
		Summary: fmt.Sprintf("%s came up again this week. Hosts discussed what %s means for the next two quarters. The consensus was cautiously optimistic.", title, sector),
		Tags:    tags,
		MentionedIn: []model.Mention{{
			Podcast:   podcasts[rng.IntN(len(podcasts))],
			Episode:   fmt.Sprint(100 + rng.IntN(600)),
			Timestamp: clock(start) + " – " + clock(end),
		}},
		SampleChat: model.SampleChat{
			Question: fmt.Sprintf("What does %s mean for %s?", sector, c.name),
			Response: fmt.Sprintf("It strengthens %s's position in %s, though execution risk remains.", c.name, sector),
		},
	}
}

func pick(rng *rand.Rand, from []string, n int) []string {
	idx := rng.Perm(len(from))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, from[i])
	}
	return out
}

func clock(sec int) string {
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, sec/60%60, sec%60)
}
