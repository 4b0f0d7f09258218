package cli

// asciiLogo is shown on the root help screen and in version output.
const asciiLogo = `╺┳┓┏━┓╺┳╸┏━┓╻  ┏━┓╺┳┓   ┏┳┓┏━╸╺┳╸┏━┓
 ┃┃┣━┫ ┃ ┣━┫┃  ┣━┫ ┃┃╺━╸┃┃┃┣╸  ┃ ┣━┫
╺┻┛╹ ╹ ╹ ╹ ╹┗━╸╹ ╹╺┻┛   ╹ ╹┗━╸ ╹ ╹ ╹`
