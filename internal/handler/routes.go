package handler

import "github.com/gofiber/fiber/v3"

// RegisterRoutes mounts all API routes under /api. Static movie paths are
// registered before the :id route so they are not captured by it.
func RegisterRoutes(app *fiber.App, authH *AuthHandler, movieH *MovieHandler, moodH *MoodHandler, libraryH *LibraryHandler, requireAuth fiber.Handler) {
	api := app.Group("/api")

	api.Get("/health", Health)

	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Get("/auth/profile", requireAuth, authH.Profile)
	api.Put("/auth/profile", requireAuth, authH.UpdateProfile)

	api.Get("/movies/trending", movieH.Trending)
	api.Get("/movies/popular", movieH.Popular)
	api.Get("/movies/top-rated", movieH.TopRated)
	api.Get("/movies/search", movieH.Search)
	api.Get("/movies/by-mood", movieH.ByMood)
	api.Get("/movies/recommend", requireAuth, movieH.Recommend)
	api.Get("/movies/:id", movieH.Details)
	api.Get("/genres", movieH.Genres)

	api.Post("/mood/detect", requireAuth, moodH.Detect)
	api.Post("/mood", requireAuth, moodH.Add)
	api.Get("/mood/history", requireAuth, moodH.History)

	api.Get("/watchlist", requireAuth, libraryH.Watchlist)
	api.Post("/watchlist", requireAuth, libraryH.AddToWatchlist)
	api.Delete("/watchlist/:movieId", requireAuth, libraryH.RemoveFromWatchlist)
	api.Get("/watchlist/check/:movieId", requireAuth, libraryH.CheckWatchlist)

	api.Post("/ratings", requireAuth, libraryH.Rate)
	api.Get("/ratings", requireAuth, libraryH.Ratings)
	api.Get("/ratings/:movieId", requireAuth, libraryH.Rating)
}
