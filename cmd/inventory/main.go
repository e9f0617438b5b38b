package main

import (
	"context"
	"log"

	"github.com/Apurer/go-order-saga/internal/app/inventory"
)

func main() {
	if err := inventory.Run(context.Background()); err != nil {
		log.Fatalf("inventory service failed: %v", err)
	}
}
