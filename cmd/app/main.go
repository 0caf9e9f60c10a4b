package main

import (
	"github.com/humanbelnik/matchmovie/internal/app"
	"github.com/humanbelnik/matchmovie/internal/config"
)

func main() {
	app.Go(config.Load())
}
