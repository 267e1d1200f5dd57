package routes

import (
	"pawlink_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat operations under /api/chat
func RegisterChatRoutes(r *mux.Router, chat controllers.ChatAPI, guard controllers.MatchGuard, relay controllers.MessageBroadcaster) {
	controller := controllers.NewChatController(chat, guard, relay)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/message", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/messages/mark-as-read", controller.HandleMarkMessagesAsRead).Methods("POST")
}
