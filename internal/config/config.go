package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host      string    `koanf:"host"`
	Server    Server    `koanf:"server"`
	Frontend  Frontend  `koanf:"frontend"`
	Gemini    Gemini    `koanf:"gemini"`
	Google    Google    `koanf:"google"`
	Reminders Reminders `koanf:"reminders"`
	Database  Database  `koanf:"db"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Frontend struct {
	Origins []string `koanf:"origins"`
}

type Gemini struct {
	ApiKey     string        `koanf:"apikey"`
	Model      string        `koanf:"model"`
	BaseUrl    string        `koanf:"baseurl"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"maxretries"`
}

// Google holds the credentials used to push schedules into a Google calendar.
// The refresh token is obtained once out of band.
type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	RefreshToken string `koanf:"refreshtoken"`
	CalendarId   string `koanf:"calendarid"`
}

type Reminders struct {
	Enabled     bool `koanf:"enabled"`
	LeadMinutes int  `koanf:"leadminutes"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Server: Server{
			Addr: ":8181",
		},
		Frontend: Frontend{
			Origins: []string{"http://localhost:3000"},
		},
		Gemini: Gemini{
			Model:      "gemini-2.5-flash",
			BaseUrl:    "https://generativelanguage.googleapis.com/v1beta",
			Timeout:    30 * time.Second,
			MaxRetries: 2,
		},
		Google: Google{
			CalendarId: "primary",
		},
		Reminders: Reminders{
			Enabled:     true,
			LeadMinutes: 5,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "geolevelup",
			Pass:   "",
			Name:   "geolevelup",
			Schema: "geolevelup",
		},
	}
}

func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("No .env file found, using process environment")
		} else {
			log.Warnf("error loading .env file: %v", err)
		}
	}

	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "GEOLEVELUP_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "GEOLEVELUP_")), "_", ".")
			if k == "frontend.origins" {
				return k, strings.Split(v, ",")
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
