package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"staffsystem/model"
	"staffsystem/utils/database/activity"
	"staffsystem/utils/database/punishments"
	"staffsystem/utils/database/staff"
)

// Bot owns the Discord session and the store handles the command handlers
// work against.
type Bot struct {
	Session            *discordgo.Session
	Config             *model.Config
	Records            *punishments.Store
	Staff              *staff.Store
	Activity           *activity.Log
	RegisteredCommands []*discordgo.ApplicationCommand
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
}

// New creates the bot on an initialized database. The session is not opened
// until Start.
func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	dg.StateEnabled = false

	return &Bot{
		Session:  dg,
		Config:   cfg,
		Records:  punishments.NewStore(db),
		Staff:    staff.NewStore(db),
		Activity: activity.NewLog(db),
	}, nil
}
