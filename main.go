package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", ".env", "Configuration file to load (e.g., .env, .dev.env)")
	outputDir := flag.String("output-dir", "", "Directory for saved artifacts (overrides env)")
	cookies := flag.String("cookies", "", "Cookie string for an authenticated session (overrides env)")
	saveRaw := flag.Bool("save-raw", false, "Save the raw API response next to the structured JSON")
	markdown := flag.Bool("markdown", false, "Render the post as a Markdown document")
	replies := flag.Bool("replies", false, "Fetch the conversation replies of the post")
	pretty := flag.Bool("pretty", false, "Print the structured JSON to stdout")
	noArchive := flag.Bool("no-archive", false, "Skip the sqlite archive for this run")
	notify := flag.Bool("notify", false, "Send the rendered post to the configured Telegram chats")
	summarize := flag.Bool("summarize", false, "Generate an AI summary of the post")
	maxDepth := flag.Int("max-depth", 0, "Quoted post resolution depth (default 5)")
	attempts := flag.Int("attempts", 0, "Auth retry attempts per request (default 3)")
	debug := flag.Bool("debug", false, "Dump HTTP responses")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "xtract - X (Twitter) post extraction\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <post id or url>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s 1892413385804792307\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -markdown -replies https://x.com/user/status/1892413385804792307\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -save-raw -pretty -no-archive 1892413385804792307\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Note: Environment variables override config file values\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	identifier := flag.Arg(0)
	if identifier == "" {
		fmt.Fprintf(os.Stderr, "Error: post id or url argument is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	if *configFile != "" {
		err := godotenv.Load(*configFile)
		if err != nil {
			log.Printf("Warning: Failed to load config file %s: %v", *configFile, err)
			log.Println("Continuing with environment variables...")
		}
	}

	opts := &CLIOptions{
		Identifier: identifier,
		OutputDir:  *outputDir,
		Cookies:    *cookies,
		SaveRaw:    *saveRaw,
		Markdown:   *markdown,
		Replies:    *replies,
		Pretty:     *pretty,
		NoArchive:  *noArchive,
		Notify:     *notify,
		Summarize:  *summarize,
		MaxDepth:   *maxDepth,
		Attempts:   *attempts,
		Debug:      *debug,
	}

	container, err := BuildContainer(opts)
	if err != nil {
		panic(fmt.Sprintf("Failed to build container: %v", err))
	}

	failed := false
	err = container.Invoke(func(app *Application) {
		if err := app.Initialize(); err != nil {
			panic(fmt.Sprintf("Failed to initialize application: %v", err))
		}
		defer app.Shutdown()

		if err := app.Run(); err != nil {
			log.Printf("Error: %v", err)
			failed = true
		}
	})
	if err != nil {
		log.Printf("Error: %v", err)
		failed = true
	}
	if failed {
		os.Exit(1)
	}
}
