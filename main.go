package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/bookbid/bookbid/api/v1"
	"github.com/bookbid/bookbid/catalog"
	"github.com/bookbid/bookbid/config"
	"github.com/bookbid/bookbid/database"
	"github.com/bookbid/bookbid/exchange"
	"github.com/bookbid/bookbid/log"
	"github.com/bookbid/bookbid/ontology"
	"github.com/bookbid/bookbid/server"
	"github.com/bookbid/bookbid/similarity"
	"github.com/bookbid/bookbid/store"
)

const greetingBanner = `
██████   ██████   ██████  ██   ██ ██████  ██ ██████
██   ██ ██    ██ ██    ██ ██  ██  ██   ██ ██ ██   ██
██████  ██    ██ ██    ██ █████   ██████  ██ ██   ██
██   ██ ██    ██ ██    ██ ██  ██  ██   ██ ██ ██   ██
██████   ██████   ██████  ██   ██ ██████  ██ ██████
`

var (
	configFile string
	host       string
	port       int
	data       string

	rootCmd = &cobra.Command{
		Use:   "bookbid",
		Short: "Bookbid is a book exchange service",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if _, err := config.GetConfig(); err != nil {
				log.Error("Error loading config", zap.Error(err))
				return
			}
			if configFile != "" {
				if _, err := config.ParseFile(configFile); err != nil {
					log.Error("Error parsing config file", zap.Error(err))
					return
				}
			}
			if host != "" {
				config.Opts.Host = host
			}
			if port != 0 {
				config.Opts.Port = port
			}
			if data != "" {
				config.Opts.Data = data
			}
			log.Logger = log.NewLogger()
			defer log.Logger.Sync()

			println(greetingBanner)

			db, err := database.NewDB()
			if err != nil {
				log.Error("Error connecting to database", zap.Error(err))
				return
			}
			defer db.Close()
			if err := database.Migrate(db, ctx); err != nil {
				log.Error("Error migrating database", zap.Error(err))
				return
			}

			s := store.NewStore(db)
			if err := s.Ping(); err != nil {
				log.Error("Error pinging database", zap.Error(err))
				return
			}

			// The catalog, vector space and ontology graph are loaded
			// once here and shared read-only for the process lifetime.
			cat, err := catalog.Load(config.Opts.CatalogFile)
			if err != nil {
				log.Error("Error loading book catalog", zap.Error(err))
				return
			}

			vectors := loadVectorSpace(cat)
			graph := loadOntology()

			engine := exchange.NewEngine(s, cat, vectors, graph, config.Opts.PlaceholderCover)
			handler := v1.NewHandler(s, engine, sessionSecret())

			httpServer, err := server.StartServer(ctx, s, handler)
			if err != nil {
				log.Error("Error starting server", zap.Error(err))
				return
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop
			log.Info("Shutting down")
			server.Shutdown(httpServer)
		},
	}
)

// loadVectorSpace prefers the precomputed vectors file and falls back
// to fitting the space from the catalog corpus.
func loadVectorSpace(cat *catalog.Catalog) *similarity.VectorSpace {
	if config.Opts.VectorsFile != "" {
		vs, err := similarity.LoadVectors(config.Opts.VectorsFile)
		if err == nil {
			return vs
		}
		log.Warn("Error loading vectors file, fitting from catalog", zap.Error(err))
	}

	docs := make(map[string]string)
	for _, b := range cat.All() {
		docs[b.Title] = b.Title + " " + b.Author + " " + b.Genre
	}
	return similarity.Fit(docs)
}

// loadOntology degrades to an empty graph: relatedness search is a
// best-effort aid, a broken graph must not block startup.
func loadOntology() *ontology.Graph {
	graph, err := ontology.Load(config.Opts.OntologyFile)
	if err != nil {
		log.Warn("Error loading ontology graph, search disabled", zap.Error(err))
		return ontology.Empty()
	}
	return graph
}

func sessionSecret() []byte {
	if config.Opts.JWTSecret != "" {
		return []byte(config.Opts.JWTSecret)
	}
	// Without a configured secret sessions do not survive a restart.
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal("Error generating session secret", zap.Error(err))
	}
	log.Warn("No jwt_secret configured, using a random per-process secret")
	return []byte(hex.EncodeToString(buf))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "host to listen on")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "port to listen on")
	rootCmd.PersistentFlags().StringVar(&data, "data", "", "data directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
