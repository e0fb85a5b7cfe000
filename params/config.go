package params

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Server struct {
	// RSAKeyBits is the modulus size used for client signing keys.
	// 2048 is the floor; 4096 is the reference size.
	RSAKeyBits int
	// ArchivePath is the Pebble directory for the ciphertext audit archive.
	// Empty disables the archive.
	ArchivePath string
	APIAddr     string
	LogFile     string
}

type Traffic struct {
	Enabled bool
	// NumClients is the size of the simulated client fleet.
	NumClients int
	// SendFrequency bounds the randomized sleep between a client's sends.
	SendFrequency time.Duration
}

type Config struct {
	Server  Server
	Traffic Traffic
}

func Default() Config {
	return Config{
		Server: Server{
			RSAKeyBits:  4096,
			ArchivePath: "data/archive",
			APIAddr:     ":8080",
			LogFile:     "data/node.log",
		},
		Traffic: Traffic{
			Enabled:       true,
			NumClients:    5,
			SendFrequency: 5 * time.Second,
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if bits := os.Getenv("RSA_KEY_BITS"); bits != "" {
		if n, err := strconv.Atoi(bits); err == nil && n >= 2048 {
			cfg.Server.RSAKeyBits = n
		}
	}

	if addr := os.Getenv("API_ADDR"); addr != "" {
		cfg.Server.APIAddr = addr
	}

	if path := os.Getenv("ARCHIVE_PATH"); path != "" {
		cfg.Server.ArchivePath = path
	}

	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		cfg.Server.LogFile = logFile
	}

	if enabled := os.Getenv("ENABLE_TRAFFIC"); enabled != "" {
		cfg.Traffic.Enabled = enabled == "true"
	}

	if n := os.Getenv("NUM_CLIENTS"); n != "" {
		if c, err := strconv.Atoi(n); err == nil && c > 0 {
			cfg.Traffic.NumClients = c
		}
	}

	if freq := os.Getenv("SEND_FREQUENCY_MS"); freq != "" {
		if ms, err := strconv.Atoi(freq); err == nil && ms > 0 {
			cfg.Traffic.SendFrequency = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}
