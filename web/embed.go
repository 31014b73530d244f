package web

import "embed"

// Templates embeds report HTML templates.
//
//go:embed templates/reports/*.html
var Templates embed.FS

// Static embeds static assets.
//
//go:embed static/images/*
var Static embed.FS
