// Command finboard-notify publishes a banner to a running dashboard over
// AMQP.
//
//	finboard-notify -category success -autohide 6000 "Import finished"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/cli"
	"finboard/internal/log"
	"finboard/internal/notify"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()

	var (
		category    string
		autohide    string
		id          string
		dismissible bool
		timeout     time.Duration
	)
	flag.StringVar(&category, "category", "info", "Banner category: success, info, warning, danger")
	flag.StringVar(&autohide, "autohide", "", "Delay in ms before auto dismissal; empty for the default, 0 to keep")
	flag.StringVar(&id, "id", "", "Optional banner id")
	flag.BoolVar(&dismissible, "dismissible", false, "Render the banner as dismissible")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Publish timeout")
	flag.Parse()

	text := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: finboard-notify [flags] message")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if !cfg.AMQPEnabled() {
		fmt.Fprintln(os.Stderr, "error: AMQP_URL is not set")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	msg := amqp.NewBannerMessage(notify.Message{
		ID:          id,
		Text:        text,
		Category:    notify.ParseCategory(category),
		Autohide:    autohide,
		Dismissible: dismissible,
	})
	if err := client.PublishBanner(ctx, msg); err != nil {
		logger.Error("Failed to publish banner", log.FieldError, err.Error())
		client.Close()
		os.Exit(1)
	}
	fmt.Println("published")
}
