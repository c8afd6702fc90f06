package main

type Settings struct {
	Port                int      `env:"PORT,default=8477"`
	BasePath            string   `env:"BASE_PATH,default=/"`
	LogEncoding         string   `env:"LOG_ENCODING,default=console"`
	JWTSecret           string   `env:"JWT_SECRET,required=true"`
	APIKeys             []string `env:"API_KEYS"`
	SimulatedIntervalMs int      `env:"SIMULATED_INTERVAL_MS,default=1500"`
}
