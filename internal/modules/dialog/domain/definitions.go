package domain

// DefaultPrompt is the button card title when an option does not set one
const DefaultPrompt = "Keep this one?"

// Option is one candidate dialogue line of a state
type Option struct {
	Dialogue string
	Prompt   string
	// Search overrides the channel's own search terms
	Search []string
	// Images bypasses the image search entirely
	Images []string
}

// PromptOrDefault returns the button card title for the option
func (o Option) PromptOrDefault() string {
	if o.Prompt == "" {
		return DefaultPrompt
	}
	return o.Prompt
}

// Definition describes a state: its options and where to go next
type Definition struct {
	Next     StateID
	NoResult StateID
	Options  []Option
}

// Colors used for dialog cards
var Colors = []string{"#ffc100", "#c356ea", "#8ff243", "#71aef2", "#71aef2"}

// CuteAnimals is the fixed image list of the last resort state
var CuteAnimals = []string{
	"https://i.ytimg.com/vi/opKg3fyqWt4/hqdefault.jpg",
	"http://cdn2.holytaco.com/wp-content/uploads/images/2009/12/dog-cute-baby.jpg",
	"http://1.bp.blogspot.com/-NnDHYuLcDbE/ToJ6Rd6Dl5I/AAAAAAAACa4/NzFAKfIV_CQ/s400/golden_retriever_puppies.jpg",
	"https://pbs.twimg.com/profile_images/497043545505947648/ESngUXG0.jpeg",
	"https://assets.rbl.ms/10706353/980x.jpg",
	"http://stuffpoint.com/dogs/image/92783-dogs-cute-puppy.png",
	"https://groomarts.com/assets/images/_listItem/cute-puppy-1.jpg",
	"https://pbs.twimg.com/profile_images/568848749611724800/Gv5zUXpu.jpeg",
	"https://i.ytimg.com/vi/rT_I_GV_oEM/hqdefault.jpg",
	"http://2.bp.blogspot.com/-GWvh8d_O8QE/UcnF6E7hJpI/AAAAAAAAAF8/VzvEBk3cVsk/s1600/cute+pomeranian+puppies.jpg",
	"https://i.ytimg.com/vi/Gw_xvtWJ6q0/hqdefault.jpg",
	"http://3.bp.blogspot.com/-Nlispwf06Ec/UaeSfJ3jXrI/AAAAAAAALl4/UxXUUzEyUdg/s640/cute+puppies+1.jpg",
	"https://groomarts.com/assets/images/_listItem/cute-puppy-2.jpg",
	"http://1.bp.blogspot.com/-HpbjntFMqpQ/TyOKIp8s-6I/AAAAAAAAE6Q/kBJdpTqgx80/s1600/Cute-Kissing-Puppies-02.jpg",
	"https://i.ytimg.com/vi/XhDZGkA1cDk/hqdefault.jpg",
	"https://pbs.twimg.com/profile_images/555279965194051585/swMjWLLf.jpeg",
	"https://i.ytimg.com/vi/xTVDBegsddE/hqdefault.jpg",
	"http://1.bp.blogspot.com/-Jp-_R2WUyVg/USXcf-GJi_I/AAAAAAAAAQ0/7QWew3pXoM8/s400/very+cute+puppies+and+kittens09.jpg",
	"https://s-media-cache-ak0.pinimg.com/736x/61/ec/ff/61ecff9521848763390c9056ebf87191.jpg",
	"https://s-media-cache-ak0.pinimg.com/736x/e4/d4/6d/e4d46d3d4e6bec19fecf6cb168cf9375.jpg",
	"http://4.bp.blogspot.com/_HOCuXB2IC34/SuhaDCdFP_I/AAAAAAAAEhU/1SJlOOuO5og/s400/1+(www.cute-pictures.blogspot.com).jpg",
	"http://www.cutenessoverflow.com/wp-content/uploads/2016/06/a.jpg",
	"https://i0.wp.com/www.cutepuppiesnow.com/wp-content/uploads/2017/03/Maltese-Puppy-2.jpg",
	"https://wallpapercave.com/wp/AYWg3iu.jpg",
}

// Definitions is the dialog state table. A zero NoResult means StateIDNoResult.
var Definitions = map[StateID]Definition{
	StateIDInitial: {
		Next: StateIDNormal,
		Options: []Option{
			{Dialogue: "I found this photo using the following search terms: {search_terms}.", Prompt: "Do you want to keep this picture?"},
		},
	},
	StateIDNoResult: {
		Next:     StateIDRandom,
		NoResult: StateIDRandom,
		Options: []Option{
			{Dialogue: "I have no idea what this channel is about. So here's a cute animal photo.", Search: []string{"cute", "puppies"}},
		},
	},
	StateIDRandom: {
		Next: StateIDImpatient,
		Options: []Option{
			{Dialogue: "How about a nice landscape?", Search: []string{"beautiful", "landscape"}},
			{Dialogue: "How about a nice moon scape?", Search: []string{"beautiful", "moonscape"}},
			{Dialogue: "This comes from the weird world of the microscopic?", Search: []string{"beautiful", "microscopic"}},
		},
	},
	StateIDNormal: {
		Next: StateIDImpatient,
		Options: []Option{
			{Dialogue: "What about this one?"},
			{Dialogue: "I like this one. What about you?"},
			{Dialogue: "Let's try something a little different. This one?"},
			{Dialogue: "Tough crowd! What about this one?"},
		},
	},
	StateIDImpatient: {
		Next: StateIDFinal,
		Options: []Option{
			{Dialogue: "A bad decision is better than no decision.", Search: []string{"inspiration", "quick", "decision"}},
			{Dialogue: "I found 15 quotes about indecision but I couldn't decide which to show you.", Search: []string{"demotivational", "indecision"}},
			{Dialogue: "Having reached the end of good taste, we now reach into modern art.", Search: []string{"weird", "modern", "art"}},
			{Dialogue: "I thought they couldn't get worse... but I was wrong.", Search: []string{"terrible", "modern", "art"}},
		},
	},
	StateIDFinal: {
		Next: StateIDEnd,
		Options: []Option{
			{Dialogue: "Ok, ok, this is the last attempt. Do you like this one?", Search: []string{"beautiful", "geometric", "designs"}},
			{Dialogue: "Will you please make up your mind? I have other things to do.", Search: []string{"impatient", "foot", "tapping"}},
		},
	},
	StateIDEnd: {
		Next: StateIDTerminated,
		Options: []Option{
			{Dialogue: "No kidding. This is the final choice. Surely you like this cute animal?", Images: CuteAnimals},
		},
	},
}

// Lookup returns the definition of id with its defaults applied
func Lookup(id StateID) (Definition, bool) {
	def, ok := Definitions[id]
	if !ok {
		return Definition{}, false
	}
	if def.NoResult == "" {
		def.NoResult = StateIDNoResult
	}
	return def, true
}
