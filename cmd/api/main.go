package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/atende-ai/internal/infra/database"
	"github.com/xavierca1/atende-ai/internal/infra/http/handlers"
	"github.com/xavierca1/atende-ai/internal/infra/http/middleware"
	"github.com/xavierca1/atende-ai/internal/infra/integration/kommo"
	"github.com/xavierca1/atende-ai/internal/infra/integration/stripe"
	"github.com/xavierca1/atende-ai/internal/infra/integration/vapi"
	"github.com/xavierca1/atende-ai/internal/infra/mail"
	"github.com/xavierca1/atende-ai/internal/infra/outbox"
	"github.com/xavierca1/atende-ai/internal/infra/queue"
	"github.com/xavierca1/atende-ai/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBITMQ_USER"),
		os.Getenv("RABBITMQ_PASS"),
		os.Getenv("RABBITMQ_HOST"),
		os.Getenv("RABBITMQ_PORT"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	submissionRepo := database.NewSubmissionRepository(db)
	outboxRepo := database.NewOutboxRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	userRepo := database.NewUserRepository(db)

	// 2. Gateways e adapters
	vapiClient := vapi.NewClient(os.Getenv("VAPI_API_KEY"), os.Getenv("VAPI_BASE_URL"))
	stripeClient := stripe.NewClient(os.Getenv("STRIPE_API_KEY"), os.Getenv("STRIPE_BASE_URL"))
	kommoClient := kommo.NewClient()

	mailPort, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
	if mailPort == 0 {
		mailPort = 587
	}
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), mailPort,
		os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		os.Getenv("MAIL_FROM"),
	)

	// 3. Pipeline de notificação: relay drena o outbox pra fila, worker
	// consome e fala com CRM + email.
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	relay := outbox.NewRelay(outboxRepo, producer)
	go relay.Run(context.Background())

	worker := queue.NewWorker(rabbitMQ.Ch, crmGateway{kommoClient}, mailSender)
	go worker.Start(queue.QueueName)

	// 4. UseCases
	onboardingService := usecase.NewOnboardingService(submissionRepo)
	completeUC := usecase.NewCompleteOnboardingUseCase(submissionRepo)
	bookingService := usecase.NewBookingService(bookingRepo, mailSender, os.Getenv("BOOKING_ALERT_TO"))

	// 5. Handlers
	secret := []byte(os.Getenv("SESSION_SECRET"))
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService, completeUC)
	authHandler := handlers.NewAuthHandler(userRepo, secret)
	agentHandler := handlers.NewAgentHandler(vapiClient)
	analyticsHandler := handlers.NewAnalyticsHandler(vapiClient)
	billingHandler := handlers.NewBillingHandler(userRepo, stripeClient)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	dashboardHandler := handlers.NewDashboardHandler(onboardingService, vapiClient, vapiClient)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	gate := middleware.NewSessionGate(secret, os.Getenv("PROVISION_CALLBACK_TOKEN"))

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{os.Getenv("APP_BASE_URL"), "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Metrics)
	r.Use(gate.Middleware)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Post("/onboarding", onboardingHandler.HandleStart)
		r.Get("/onboarding", onboardingHandler.HandleList)
		r.Post("/onboarding/agent", onboardingHandler.HandleAttachAgent)
		r.Post("/onboarding/complete", onboardingHandler.HandleComplete)
		r.Get("/onboarding/{id}", onboardingHandler.HandleGet)

		r.Get("/agents", agentHandler.HandleList)
		r.Post("/agents", agentHandler.HandleCreate)
		r.Get("/agents/{id}", agentHandler.HandleGet)
		r.Patch("/agents/{id}", agentHandler.HandleUpdate)
		r.Delete("/agents/{id}", agentHandler.HandleDelete)
		r.Get("/voices", agentHandler.HandleListVoices)

		r.Get("/analytics/calls", analyticsHandler.HandleCallStats)

		r.Post("/billing/checkout", billingHandler.HandleCheckout)
		r.Post("/billing/webhook", billingHandler.HandleWebhook)

		r.Post("/bookings", bookingHandler.HandleCreate)
		r.Get("/bookings", bookingHandler.HandleList)
		r.Get("/availability", bookingHandler.HandleAvailability)

		r.Get("/dashboard", dashboardHandler.HandleGet)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🔥 AtendeAI API rodando na porta :%s", port)
	http.ListenAndServe(":"+port, r)
}

// crmGateway adapta o client Kommo pra interface do worker.
type crmGateway struct {
	client *kommo.Client
}

func (g crmGateway) CreateLead(input queue.CRMLeadInput) (int, error) {
	return g.client.CreateLead(kommo.CreateLeadInput{
		CompanyURL: input.CompanyURL,
		Email:      input.Email,
		AgentName:  input.AgentName,
		IsMock:     input.IsMock,
	})
}
