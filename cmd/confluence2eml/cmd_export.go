/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/dauletle/confluence2eml/confluence"
	"github.com/dauletle/confluence2eml/export"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

func runExport(ctx context.Context) error {
	user := AuthUser
	if user == "" {
		user = os.Getenv("CONFLUENCE_USER")
	}
	token := AuthToken
	if token == "" {
		token = os.Getenv("CONFLUENCE_TOKEN")
	}

	pageID, err := confluence.ExtractPageID(PageURL)
	if err != nil {
		return fmt.Errorf("cmd: couldn't find a page ID in the given URL: %w", err)
	}
	baseURL, err := confluence.ExtractBaseURL(PageURL)
	if err != nil {
		return fmt.Errorf("cmd: couldn't determine Confluence instance: %w", err)
	}
	debugLog("exporting page %s from %s\n", pageID, baseURL)

	api, err := confluence.NewAPI(baseURL, user, token)
	if err != nil {
		return fmt.Errorf("cmd: Confluence API creation failed: %w", err)
	}

	var imageClient *http.Client
	if WithVCR {
		// set up VCR recordings.
		opts := &recorder.Options{
			CassetteName:       "fixtures/confluence-stuff",
			Mode:               recorder.ModeReplayWithNewEpisodes,
			SkipRequestLatency: true,
			RealTransport:      http.DefaultTransport,
		}
		r, err := recorder.NewWithOptions(opts)
		if err != nil {
			return fmt.Errorf("cmd: couldn't set up go-vcr recording: %w", err)
		}

		defer r.Stop() // Make sure recorder is stopped once done with it

		// Add a hook which removes Authorization headers from all requests
		hook := func(i *cassette.Interaction) error {
			delete(i.Request.Headers, "Authorization")
			return nil
		}
		r.AddHook(hook, recorder.AfterCaptureHook)
		r.SetReplayableInteractions(true)

		vcr_client := r.GetDefaultClient()
		api.Client = vcr_client
		// Image downloads go through the same cassette.
		imageClient = vcr_client
	}

	exporter := export.Exporter{
		API:         api,
		PageID:      pageID,
		BaseURL:     baseURL,
		User:        user,
		Token:       token,
		OutputPath:  OutputPath,
		FromAddr:    FromAddr,
		ToAddr:      ToAddr,
		ImageClient: imageClient,
		Debugf:      debugLog,
	}

	result, err := exporter.Run(ctx)
	if err != nil {
		return fmt.Errorf("cmd: export failed: %w", err)
	}

	fmt.Printf("Exported '%s'.\n", result.Title)
	fmt.Printf("  Markdown: %s\n", result.MarkdownPath)
	fmt.Printf("  EML:      %s\n", result.EMLPath)

	return nil
}
