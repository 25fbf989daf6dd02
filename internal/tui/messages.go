package tui

type loadedMsg struct {
	err error
}

type moreLoadedMsg struct {
	err error
}

type openErrMsg struct {
	err error
}
