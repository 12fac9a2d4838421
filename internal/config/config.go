package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type (
	Container struct {
		App     *App
		Token   *Token
		DB      *DB
		HTTP    *HTTP
		Redis   *Redis
		Storage *Storage
		Gemini  *Gemini
	}

	App struct {
		Name string
		Env  string
	}

	Token struct {
		Secret string
	}

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	HTTP struct {
		Env            string
		Port           string
		AllowedOrigins string
		URL            string
	}

	Redis struct {
		Address  string
		Password string
	}

	Storage struct {
		Bucket string
		Region string
	}

	Gemini struct {
		APIKey string
		Model  string
	}
)

func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Name: os.Getenv("APP_NAME"),
		Env:  os.Getenv("APP_ENV"),
	}

	token := &Token{
		Secret: os.Getenv("TOKEN_SECRET"),
	}

	db := &DB{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
	}

	http := &HTTP{
		Port:           os.Getenv("HTTP_PORT"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		URL:            os.Getenv("HTTP_URL"),
		Env:            os.Getenv("APP_ENV"),
	}

	redis := &Redis{
		Address:  os.Getenv("REDIS_ADDRESS"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	storage := &Storage{
		Bucket: os.Getenv("S3_BUCKET"),
		Region: os.Getenv("AWS_REGION"),
	}

	gemini := &Gemini{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
	}
	if gemini.Model == "" {
		gemini.Model = "gemini-2.0-flash"
	}

	return &Container{
		App:     app,
		Token:   token,
		DB:      db,
		HTTP:    http,
		Redis:   redis,
		Storage: storage,
		Gemini:  gemini,
	}, nil
}

// ImageSearchCapacity is the token bucket size for AI image search.
func ImageSearchCapacity() int {
	if v, err := strconv.Atoi(os.Getenv("IMAGE_SEARCH_CAPACITY")); err == nil && v > 0 {
		return v
	}
	return 10
}

// ImageSearchRefillPerHour is the hourly token refill rate.
func ImageSearchRefillPerHour() float64 {
	if v, err := strconv.ParseFloat(os.Getenv("IMAGE_SEARCH_REFILL_PER_HOUR"), 64); err == nil && v > 0 {
		return v
	}
	return 10
}
