package main

import (
	"context"
	"log"

	"github.com/Apurer/go-order-saga/internal/app/purchase"
)

func main() {
	if err := purchase.Run(context.Background()); err != nil {
		log.Fatalf("purchase service failed: %v", err)
	}
}
