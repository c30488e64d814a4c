package main

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/quizeweb/quizeweb-api/internal/config"
	"github.com/quizeweb/quizeweb-api/internal/logging"
	"github.com/quizeweb/quizeweb-api/internal/repository/postgres"
	"github.com/quizeweb/quizeweb-api/internal/service"
	transport "github.com/quizeweb/quizeweb-api/internal/transport/http"
	"github.com/quizeweb/quizeweb-api/internal/transport/mail"
	"github.com/quizeweb/quizeweb-api/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepo(db)
	quizRepo := postgres.NewQuizRepo(db)
	resultRepo := postgres.NewResultRepo(db)

	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.FrontendBaseURL)

	authService := service.NewAuthService(userRepo, mailer, jwtManager, cfg.VerificationTTL, cfg.PasswordResetTTL)
	quizService := service.NewQuizService(quizRepo)
	resultService := service.NewResultService(resultRepo, quizRepo)

	cookies := transport.CookieSettings{SameSite: http.SameSiteLaxMode}
	if cfg.Environment == "production" {
		cookies = transport.CookieSettings{Secure: true, SameSite: http.SameSiteNoneMode}
	}

	e := transport.NewRouter(cfg.AllowOrigins)

	transport.RegisterAuth(e, authService, cookies)
	transport.RegisterQuizzes(e, authService, quizService)
	transport.RegisterResults(e, authService, resultService)
	transport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
