package usecase

import "github.com/iamvkosarev/hecu-telegram-bot/pkg/local"

const (
	CommandStart  = "start"
	CommandStop   = "stop"
	CommandList   = "list"
	CommandHelp   = "help"
	CommandSay    = "say"
	CommandBinary = "binary"
	CommandPhoto  = "photo"
)

var (
	MessageHi = local.NewSet(
		"HECU unit deployed. Type /help to see your orders.",
		local.NewTrans(local.Ita, "Unità HECU schierata. Scrivi /help per conoscere gli ordini."),
	)
	MessageBye = local.NewSet(
		"HECU unit leaving the area.",
		local.NewTrans(local.Ita, "L'unità HECU lascia la zona."),
	)
	MessageList = local.NewSet(
		"Words I can say:",
		local.NewTrans(local.Ita, "Parole che posso dire:"),
	)
	MessageHelp = local.NewSet(
		"/start - activate me in this chat\n"+
			"/stop - deactivate me\n"+
			"/list - words I can say\n"+
			"/say - I will say your next message\n"+
			"/binary - I will read your next message in binary\n"+
			"/photo - send a query, add //N for N photos (max %d), or ask for random[-W[-H]]\n"+
			"/help - this message",
		local.NewTrans(
			local.Ita,
			"/start - attivami in questa chat\n"+
				"/stop - disattivami\n"+
				"/list - parole che posso dire\n"+
				"/say - dirò il tuo prossimo messaggio\n"+
				"/binary - leggerò il tuo prossimo messaggio in binario\n"+
				"/photo - invia una ricerca, aggiungi //N per N foto (max %d), oppure chiedi random[-L[-A]]\n"+
				"/help - questo messaggio",
		),
	)
	MessageSay = local.NewSet(
		"What should I say?",
		local.NewTrans(local.Ita, "Cosa devo dire?"),
	)
	MessageBinary = local.NewSet(
		"What should I convert to binary?",
		local.NewTrans(local.Ita, "Cosa devo convertire in binario?"),
	)
	MessagePhoto = local.NewSet(
		"What should I search? Add //N to get N photos (max %d), or type random for random photos.",
		local.NewTrans(
			local.Ita,
			"Cosa devo cercare? Aggiungi //N per avere N foto (max %d), oppure scrivi random per foto casuali.",
		),
	)
	MessageWordNotFound = local.NewSet(
		"Word %q not found",
		local.NewTrans(local.Ita, "Parola %q non trovata"),
	)
	MessageBinaryTooLarge = local.NewSet(
		"String too large for binary request",
		local.NewTrans(local.Ita, "Testo troppo lungo per la richiesta binaria"),
	)
	MessagePhotoExceeded = local.NewSet(
		"Daily photo search limit reached. Try again tomorrow or ask for random photos.",
		local.NewTrans(
			local.Ita, "Limite giornaliero di ricerche raggiunto. Riprova domani o chiedi foto casuali.",
		),
	)
	MessagePhotoLimit = local.NewSet(
		"You can ask for 1 to %d photos.",
		local.NewTrans(local.Ita, "Puoi chiedere da 1 a %d foto."),
	)
	MessagePhotoMalformed = local.NewSet(
		"I did not understand. Use <query>//N with N up to %d, or random-W-H.",
		local.NewTrans(local.Ita, "Non ho capito. Usa <ricerca>//N con N fino a %d, oppure random-L-A."),
	)
	MessagePhotoNotFound = local.NewSet(
		"I could not find usable photos for that.",
		local.NewTrans(local.Ita, "Non ho trovato foto utilizzabili."),
	)
	MessageServerError = local.NewSet(
		"Something wrong with me. Try later",
		local.NewTrans(local.Ita, "Qualcosa non va. Riprova più tardi"),
	)
	MessageUserNoAccess = local.NewSet(
		"You are not allowed to use this bot",
		local.NewTrans(local.Ita, "Non sei autorizzato a usare questo bot"),
	)
)
