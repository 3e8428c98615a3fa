package service

import "github.com/slack-go/slack"

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func offer(text, button, value string) slack.Block {
	return slack.NewSectionBlock(markdown(text), nil,
		slack.NewAccessory(slack.NewButtonBlockElement("", value, plain(button))))
}

func enoughButton() slack.Block {
	return slack.NewActionBlock("", slack.NewButtonBlockElement("", ClickEnough, plain("I've had enough of Clippy")))
}

func newGroupBlocks() []slack.Block {
	return []slack.Block{
		slack.NewImageBlock("https://tenor.com/view/clip-windows-microsoft-agent-gif-11209432", "Clippy", "", nil),
		slack.NewSectionBlock(plain("Hello!"), nil, nil),
		slack.NewSectionBlock(plain("It looks like you're trying to do something productive. Would you like me to interrupt you?"), nil, nil),
		slack.NewDividerBlock(),
		offer("1. Do you want to play Global Thermonuclear War?", "Launch now :rocket:", "click_gtw"),
		slack.NewDividerBlock(),
		offer("2. How about a nice game of chess?", "The Orangutan 1. b4 :monkey:", "click_chess"),
		slack.NewDividerBlock(),
		offer("3. What about playing Civ 2?", "Just one more turn :clock2:", "click_civ"),
		slack.NewDividerBlock(),
		offer("4. Die in fire, Ghost Of MS Past!", "Light a match :fire:", "click_die"),
		slack.NewDividerBlock(),
		enoughButton(),
	}
}

func newThreadBlocks() []slack.Block {
	return []slack.Block{
		slack.NewImageBlock("https://i.gifer.com/fzNE.gif", "Clippy", "", nil),
		slack.NewSectionBlock(plain("Hello!"), nil, nil),
		slack.NewSectionBlock(plain("It looks like you've just created a discussion group."), nil, nil),
		slack.NewDividerBlock(),
		offer("1. Would you like me to create it for you?", "Umm...", "click_um"),
		offer("2. Would you like me to make you a member of the group?", "Ah... OK?", "click_ah_ok"),
		offer("3. Would you like me to distract you from productive work?", "Not really", "click_not_really"),
		slack.NewDividerBlock(),
		enoughButton(),
	}
}

// responses maps each clippy button value to the blocks that replace the message
var responses = map[string]func() []slack.Block{
	"click_gtw": func() []slack.Block {
		return []slack.Block{slack.NewSectionBlock(markdown("Which side do you want to be? *<https://www.myabandonware.com/game/global-thermonuclear-war-3u4/play-42k|Global Thermonuclear War>*"), nil, nil)}
	},
	"click_chess": func() []slack.Block {
		return []slack.Block{slack.NewSectionBlock(markdown("Unfashionable, and therefore playable: *<https://www.chesscentral.com/pages/free-chess-games/the-sokolsky-opening.html|The Orangutan Opening>*"), nil, nil)}
	},
	"click_civ": func() []slack.Block {
		return []slack.Block{slack.NewSectionBlock(markdown("It's online! *<https://classicreload.com/win3x-sid-meiers-civilization-ii.html|Civ 2 in the browser>*"), nil, nil)}
	},
	"click_die": func() []slack.Block {
		return []slack.Block{slack.NewImageBlock("https://media.giphy.com/media/5nsiFjdgylfK3csZ5T/giphy.gif", "Clippy fired", "", plain("Bill Gates fires Clippy"))}
	},
	"click_um": func() []slack.Block {
		return []slack.Block{slack.NewSectionBlock(plain("Great! I'm glad I was able to help :thumbsup: "), nil, nil)}
	},
	"click_ah_ok": func() []slack.Block {
		return []slack.Block{slack.NewSectionBlock(plain("Awesome! I could you help you write a letter now! :envelope: :smiley:"), nil, nil)}
	},
	"click_not_really": func() []slack.Block {
		return []slack.Block{
			slack.NewSectionBlock(markdown("OK! I'm out of here :white_frowning_face:"), nil, nil),
			slack.NewSectionBlock(markdown("*<https://www.mentalfloss.com/article/504767/tragic-life-clippy-worlds-most-hated-virtual-assistant|The Tragic Life of Clippy -- The World's Most Hated Virtual Assistant>*"), nil, nil),
		}
	},
	ClickEnough: func() []slack.Block {
		return []slack.Block{
			slack.NewSectionBlock(markdown("Thank you for taking part in this year April Fool's sociological experiment. "), nil, nil),
			slack.NewSectionBlock(plain("Do one thing today to bring a smile to someone who's feeling low :smile:"), nil, nil),
			slack.NewContextBlock("", markdown("*If you need inspiration:* <http://hoaxes.org/aprilfool|Best April Fool Pranks of All Time>")),
		}
	},
}
