package main

import (
	"fmt"
	"os"

	"github.com/yungbote/readbridge-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		a.Log.Error("Server exited", "error", err.Error())
		os.Exit(1)
	}
}
