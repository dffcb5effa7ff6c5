package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"campusx/internal/adapter/api"
	"campusx/internal/adapter/api/handler"
	apimiddleware "campusx/internal/adapter/api/middleware"
	"campusx/internal/adapter/api/router"
	"campusx/internal/adapter/repository"
	"campusx/internal/infrastructure/firebase"
	"campusx/internal/infrastructure/ratelimit"
	"campusx/internal/infrastructure/storage"
	"campusx/internal/infrastructure/websocket"
	"campusx/internal/usecase"
	"campusx/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""

	// Service account from environment variable in production, file path for
	// local development.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			credentialsPath = "./service-account.json"
		}
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", credentialsPath)
		}
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	offerRepo := repository.NewFirestoreOfferRepository(firestoreClient)
	reportRepo := repository.NewFirestoreReportRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	wsManager := websocket.NewManager(cfg.ChatGlobalBroadcast)
	wsManager.SetTypingLimiter(rateLimiter)
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	listingUseCase := usecase.NewListingUseCase(listingRepo, userRepo, storageClient)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, listingRepo, wsManager, rateLimiter)
	offerUseCase := usecase.NewOfferUseCase(offerRepo, chatRepo, listingRepo, chatUseCase, rateLimiter, cfg.OfferAcceptOwnerOnly)
	reportUseCase := usecase.NewReportUseCase(reportRepo, listingRepo, userRepo)

	// Realtime messages persist through the same path as REST sends.
	wsManager.SetChatService(chatUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, router.Handlers{
		Auth:      handler.NewAuthHandler(authUseCase),
		Listing:   handler.NewListingHandler(listingUseCase),
		Chat:      handler.NewChatHandler(chatUseCase, offerUseCase),
		Report:    handler.NewReportHandler(reportUseCase),
		Admin:     handler.NewAdminHandler(reportUseCase),
		Upload:    handler.NewUploadHandler(storageClient),
		WebSocket: handler.NewWebSocketHandler(wsManager, authMiddleware, userRepo),
		Health:    handler.NewHealthHandler(),
	}, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
