package main

import (
	"context"
	"log"

	"github.com/Apurer/go-order-saga/internal/app/orchestrator"
)

func main() {
	if err := orchestrator.Run(context.Background()); err != nil {
		log.Fatalf("order orchestrator failed: %v", err)
	}
}
