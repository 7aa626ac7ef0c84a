package main

import (
	_ "github.com/mengfanShi/MiniCPM-V/docs"
	"github.com/mengfanShi/MiniCPM-V/internal/bootstrap"
)

// @title MiniCPM-V Caption API
// @version 1.0.0
// @description Describes images and short videos with MiniCPM-V models

// @host localhost:8888
// @BasePath /

func main() {
	bootstrap.Run()
}
