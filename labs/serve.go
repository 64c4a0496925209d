package labs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// newRouter serves the files of dir under /results and the recorded run
// configurations under /runs
func newRouter(dir string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Static("/results", dir)
	r.GET("/runs", func(c *gin.Context) {
		runs, err := readRuns(dir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, runs)
	})
	r.GET("/runs/:name", func(c *gin.Context) {
		runs, err := readRuns(dir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for _, run := range runs {
			if fmt.Sprint(run["name"]) == c.Param("name") {
				c.JSON(http.StatusOK, run)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "no such run"})
	})
	return r
}

// readRuns decodes every *_config.json in dir, sorted by name
func readRuns(dir string) ([]map[string]any, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []map[string]any{}, nil
	} else if err != nil {
		return nil, err
	}
	runs := make([]map[string]any, 0)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), "_config.json") {
			continue
		}
		bs, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		run := make(map[string]any)
		if err := json.Unmarshal(bs, &run); err != nil {
			logger.Printf("skipping %s: %s", e.Name(), err)
			continue
		}
		if _, ok := run["name"]; !ok {
			run["name"] = strings.TrimSuffix(e.Name(), "_config.json")
		}
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return fmt.Sprint(runs[i]["name"]) < fmt.Sprint(runs[j]["name"])
	})
	return runs, nil
}

func ServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the results folder over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()

			server := &http.Server{
				Addr:    addr,
				Handler: newRouter(saveFile),
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				server.Shutdown(shutdownCtx)
			}()

			logger.Printf("serving %s on %s", saveFile, addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", getEnvWithDefault("LABS_ADDR", ":8080"), "Address to listen on")
	return cmd
}
