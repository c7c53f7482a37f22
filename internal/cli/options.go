package cli

// Options is the root of the mentor command line. The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Chat *ChatCmd `command:"chat" description:"Talk to the mentor in the terminal"`
}

// ChatCmd overrides configuration for one terminal session.
type ChatCmd struct {
	Provider    string `short:"p" long:"provider" description:"model provider: gemini|openai"`
	Model       string `short:"m" long:"model" description:"model name"`
	PersonaFile string `long:"persona" description:"YAML file with a persona key"`
	MaxTurns    int    `long:"max-turns" description:"turns kept after the persona (0 keeps the configured bound)"`
	Timeout     int    `short:"t" long:"timeout" description:"seconds to wait for each reply (0 keeps the configured timeout)"`
}
