package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	_ "github.com/Aidin1998/algohost/internal/algorithms/factor"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
