package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/grutapig/xtract/xapi"
)

// Application runs one post resolution end to end: fetch, optional summary,
// artifacts on disk, archive row, optional notification.
type Application struct {
	config     *Config
	opts       *CLIOptions
	xapi       *xapi.XAPIService
	files      *FileService
	formatter  *MarkdownFormatter
	archive    *ArchiveService
	notifier   *TelegramNotifier
	summarizer *SummaryService
}

func NewApplication(
	config *Config,
	opts *CLIOptions,
	xapiService *xapi.XAPIService,
	fileService *FileService,
	formatter *MarkdownFormatter,
	archiveService *ArchiveService,
	notifier *TelegramNotifier,
	summaryService *SummaryService,
) (*Application, error) {
	return &Application{
		config:     config,
		opts:       opts,
		xapi:       xapiService,
		files:      fileService,
		formatter:  formatter,
		archive:    archiveService,
		notifier:   notifier,
		summarizer: summaryService,
	}, nil
}

func (app *Application) Initialize() error {
	if err := app.archive.PruneFetchLogs(app.config.FetchLogRetentionDays); err != nil {
		log.Printf("Warning: %v", err)
	}
	return nil
}

func (app *Application) Run() error {
	runID := uuid.New().String()
	started := time.Now()

	log.Printf("Resolving %s (run %s)", app.opts.Identifier, runID)

	resolved, err := app.xapi.ResolvePost(app.opts.Identifier, xapi.ResolveOptions{
		IncludeReplies: app.opts.Replies,
	})
	if err != nil {
		app.logFetch(runID, "", started, err, 0)
		return err
	}
	post := resolved.Post

	summary := ""
	if app.opts.Summarize {
		result, sumErr := app.summarizer.Summarize(post)
		if sumErr != nil {
			log.Printf("Failed to summarize post %s: %v", post.TweetID, sumErr)
		} else {
			summary = result
		}
	}

	app.logFetch(runID, post.TweetID, started, nil, len(post.Replies))
	if err := app.archive.SavePost(post, summary); err != nil {
		log.Printf("Warning: failed to archive post %s: %v", post.TweetID, err)
	}

	dir, err := app.files.EnsurePostDir(post.TweetID)
	if err != nil {
		return err
	}

	if app.opts.SaveRaw {
		if _, err := app.files.SaveBytes(dir, RAW_RESPONSE_FILENAME, resolved.Raw); err != nil {
			return err
		}
	}

	jsonPath, err := app.files.SaveJSON(dir, POST_JSON_FILENAME, post)
	if err != nil {
		return err
	}
	log.Printf("Saved post %s by @%s to %s", post.TweetID, post.Username, jsonPath)

	document := ""
	if app.opts.Markdown || app.opts.Notify {
		document, err = app.formatter.Render(post, summary)
		if err != nil {
			return err
		}
	}

	if app.opts.Markdown {
		mdPath, err := app.files.SaveText(dir, MarkdownFilename(post.TweetID), document)
		if err != nil {
			return err
		}
		log.Printf("Saved markdown to %s", mdPath)
	}

	if app.opts.Pretty {
		pretty, err := json.MarshalIndent(post, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(pretty))
	}

	if summary != "" {
		fmt.Printf("\nAI Summary:\n%s\n", summary)
	}

	if app.opts.Notify {
		if err := app.notifier.SendMarkdown(document); err != nil {
			log.Printf("Failed to send telegram notification: %v", err)
		}
	}

	return nil
}

// logFetch records the resolution outcome. Archive failures only warn, the
// run itself is not affected.
func (app *Application) logFetch(runID, postID string, started time.Time, runErr error, replies int) {
	entry := &FetchLogModel{
		RunUUID:      runID,
		Identifier:   app.opts.Identifier,
		PostID:       postID,
		Outcome:      FETCH_OUTCOME_OK,
		RequestCount: app.xapi.Requests(),
		RepliesCount: replies,
		DurationMs:   time.Since(started).Milliseconds(),
	}
	if runErr != nil {
		entry.Outcome = FETCH_OUTCOME_ERROR
		entry.ErrorMessage = runErr.Error()
	}

	if err := app.archive.LogFetch(entry); err != nil {
		log.Printf("Warning: failed to record fetch log: %v", err)
	}
}

func (app *Application) Shutdown() {
	if err := app.archive.Close(); err != nil {
		log.Printf("Warning: failed to close archive: %v", err)
	}
}
