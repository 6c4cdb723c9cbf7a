// Command scraper populates the story corpus that cmd/gametest smoke
// tests against: it crawls the IF Archive's zcode index and downloads
// every story file in a version this interpreter actually supports.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const indexURL = "https://www.ifarchive.org/indexes/if-archive/games/zcode/"

// supportedExtensions matches the versions this interpreter loads (v6
// is a distinct, unsupported graphical dialect); there's no point
// spending a download on a story zmachine.New will immediately reject.
var supportedExtensions = regexp.MustCompile(`\.z[1234578]$`)

func main() {
	outputDir := flag.String("stories", "stories", "Directory to download story files into (matches cmd/gametest's -stories)")
	limit := flag.Int("limit", 0, "Stop after downloading this many games (0 = no limit)")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Printf("Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	c := &http.Client{Timeout: 30 * time.Second}
	games, err := listGames(c)
	if err != nil {
		fmt.Printf("Failed to list games: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Found %d games in a supported version\n", len(games))

	downloaded, skipped, failed := downloadAll(c, games, *outputDir, *limit)
	fmt.Printf("\nDone! Downloaded: %d, Skipped: %d, Failed: %d\n", downloaded, skipped, failed)

	if err := writeManifest(*outputDir, games); err != nil {
		fmt.Printf("Failed to write manifest: %v\n", err)
		return
	}
	fmt.Printf("Wrote manifest to %s\n", filepath.Join(*outputDir, "manifest.txt"))
}

type game struct {
	name string
	url  string
}

// listGames scrapes the archive's directory listing for every link
// whose extension names a version cmd/gametest will attempt to run.
func listGames(c *http.Client) ([]game, error) {
	res, err := c.Get(indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}
	defer res.Body.Close() // nolint:errcheck

	if res.StatusCode != 200 {
		return nil, fmt.Errorf("bad status code: %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var games []game
	doc.Find("dl dt").Each(func(i int, s *goquery.Selection) {
		href, exists := s.Find("a").Attr("href")
		if !exists || !supportedExtensions.MatchString(href) {
			return
		}
		games = append(games, game{
			name: filepath.Base(href),
			url:  "https://www.ifarchive.org" + href,
		})
	})
	return games, nil
}

// downloadAll fetches each game into outputDir, skipping files already
// present and stopping early once limit successful downloads have
// completed (limit <= 0 means no cap).
func downloadAll(c *http.Client, games []game, outputDir string, limit int) (downloaded, skipped, failed int) {
	for i, g := range games {
		if limit > 0 && downloaded >= limit {
			fmt.Printf("Reached -limit=%d, stopping\n", limit)
			break
		}

		destPath := filepath.Join(outputDir, g.name)
		if _, err := os.Stat(destPath); err == nil {
			fmt.Printf("[%d/%d] Skipping %s (already exists)\n", i+1, len(games), g.name)
			skipped++
			continue
		}

		fmt.Printf("[%d/%d] Downloading %s... ", i+1, len(games), g.name)
		if err := downloadOne(c, g, destPath); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			failed++
			continue
		}
		downloaded++

		time.Sleep(100 * time.Millisecond) // be nice to the server
	}
	return downloaded, skipped, failed
}

func downloadOne(c *http.Client, g game, destPath string) error {
	resp, err := c.Get(g.url)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != 200 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return err
	}
	fmt.Printf("OK (%d bytes)\n", len(data))
	return nil
}

// writeManifest lists every scraped game's filename, one per line, so
// cmd/gametest's -game flag can be driven by scripted iteration over
// the corpus without re-reading the directory.
func writeManifest(outputDir string, games []game) error {
	var manifest strings.Builder
	for _, g := range games {
		manifest.WriteString(g.name + "\n")
	}
	return os.WriteFile(filepath.Join(outputDir, "manifest.txt"), []byte(manifest.String()), 0644)
}
