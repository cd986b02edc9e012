package web

import "embed"

// StaticFS содержит собранный веб-клиент календаря, раздаётся с корня сервера.
//
//go:embed static/*
var StaticFS embed.FS
