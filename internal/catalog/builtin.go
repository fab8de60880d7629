package catalog

import "github.com/hyperjump/niteru/internal/models"

const (
	// BuiltinSource selects the bundled twelve-movie demo catalog.
	BuiltinSource  = "builtin"
	// EnhancedSource selects the bundled catalog extended with classics, thrillers, and war films.
	EnhancedSource = "builtin:enhanced"
)

// IsBuiltin reports whether source names a bundled catalog. An empty source means BuiltinSource.
func IsBuiltin(source string) bool {
	return source == "" || source == BuiltinSource || source == EnhancedSource
}

// Builtin returns a fresh copy of the bundled twelve-movie catalog.
func Builtin() []models.Movie {
	return []models.Movie{
		{Title: "The Matrix", Description: "sci-fi action dystopia virtual reality computer simulation", Genres: []string{"Sci-Fi", "Action"}, Year: 1999, Rating: 8.7},
		{Title: "John Wick", Description: "action assassin revenge fast-paced gunfights", Genres: []string{"Action", "Thriller"}, Year: 2014, Rating: 7.4},
		{Title: "Inception", Description: "dream reality heist sci-fi mind-bending thriller", Genres: []string{"Sci-Fi", "Thriller"}, Year: 2010, Rating: 8.8},
		{Title: "The Notebook", Description: "romance drama emotional love story tearjerker", Genres: []string{"Romance", "Drama"}, Year: 2004, Rating: 7.8},
		{Title: "Titanic", Description: "romantic tragedy ship iceberg love disaster", Genres: []string{"Romance", "Drama"}, Year: 1997, Rating: 7.9},
		{Title: "The Avengers", Description: "superhero marvel team save world action adventure", Genres: []string{"Action", "Adventure"}, Year: 2012, Rating: 8.0},
		{Title: "Interstellar", Description: "space time travel family survival emotional sci-fi", Genres: []string{"Sci-Fi", "Drama"}, Year: 2014, Rating: 8.6},
		{Title: "The Dark Knight", Description: "dark superhero joker crime gotham psychological", Genres: []string{"Action", "Drama"}, Year: 2008, Rating: 9.0},
		{Title: "Tenet", Description: "inverted time sci-fi mystery thriller mind-bending", Genres: []string{"Sci-Fi", "Thriller"}, Year: 2020, Rating: 7.4},
		{Title: "Forrest Gump", Description: "drama comedy historical life story inspirational", Genres: []string{"Drama", "Comedy"}, Year: 1994, Rating: 8.8},
		{Title: "Pulp Fiction", Description: "crime thriller dark humor violence gangster", Genres: []string{"Crime", "Thriller"}, Year: 1994, Rating: 8.9},
		{Title: "The Shawshank Redemption", Description: "drama prison friendship hope redemption", Genres: []string{"Drama"}, Year: 1994, Rating: 9.3},
	}
}

// Enhanced returns a fresh copy of the extended catalog: the twelve Builtin movies first,
// then 36 more.
func Enhanced() []models.Movie {
	return append(Builtin(), []models.Movie{
		{Title: "Fight Club", Description: "psychological thriller violence social commentary", Genres: []string{"Thriller", "Drama"}, Year: 1999, Rating: 8.8},
		{Title: "Goodfellas", Description: "crime gangster mafia violence drama", Genres: []string{"Crime", "Drama"}, Year: 1990, Rating: 8.7},
		{Title: "The Godfather", Description: "crime mafia family drama classic", Genres: []string{"Crime", "Drama"}, Year: 1972, Rating: 9.2},
		{Title: "Casablanca", Description: "romance war drama classic black white", Genres: []string{"Romance", "Drama"}, Year: 1942, Rating: 8.5},
		{Title: "Gone with the Wind", Description: "romance drama historical civil war epic", Genres: []string{"Romance", "Drama"}, Year: 1939, Rating: 8.1},
		{Title: "The Wizard of Oz", Description: "fantasy adventure musical classic family", Genres: []string{"Fantasy", "Adventure"}, Year: 1939, Rating: 8.0},
		{Title: "Citizen Kane", Description: "drama mystery journalism classic", Genres: []string{"Drama", "Mystery"}, Year: 1941, Rating: 8.3},
		{Title: "Star Wars: A New Hope", Description: "sci-fi fantasy adventure space epic", Genres: []string{"Sci-Fi", "Adventure"}, Year: 1977, Rating: 8.6},
		{Title: "The Empire Strikes Back", Description: "sci-fi fantasy adventure space family", Genres: []string{"Sci-Fi", "Adventure"}, Year: 1980, Rating: 8.7},
		{Title: "Return of the Jedi", Description: "sci-fi fantasy adventure space redemption", Genres: []string{"Sci-Fi", "Adventure"}, Year: 1983, Rating: 8.3},
		{Title: "Jurassic Park", Description: "sci-fi adventure dinosaurs action family", Genres: []string{"Sci-Fi", "Adventure"}, Year: 1993, Rating: 8.5},
		{Title: "E.T. the Extra-Terrestrial", Description: "sci-fi family adventure alien friendship", Genres: []string{"Sci-Fi", "Family"}, Year: 1982, Rating: 7.8},
		{Title: "Jaws", Description: "horror thriller shark survival adventure", Genres: []string{"Horror", "Thriller"}, Year: 1975, Rating: 8.0},
		{Title: "Raiders of the Lost Ark", Description: "adventure action archaeology treasure hunt", Genres: []string{"Adventure", "Action"}, Year: 1981, Rating: 8.4},
		{Title: "Indiana Jones and the Last Crusade", Description: "adventure action archaeology religious quest", Genres: []string{"Adventure", "Action"}, Year: 1989, Rating: 8.2},
		{Title: "Back to the Future", Description: "sci-fi comedy time travel adventure", Genres: []string{"Sci-Fi", "Comedy"}, Year: 1985, Rating: 8.5},
		{Title: "The Terminator", Description: "sci-fi action robot future dystopia", Genres: []string{"Sci-Fi", "Action"}, Year: 1984, Rating: 8.0},
		{Title: "Terminator 2: Judgment Day", Description: "sci-fi action robot future redemption", Genres: []string{"Sci-Fi", "Action"}, Year: 1991, Rating: 8.5},
		{Title: "Die Hard", Description: "action thriller hostage christmas", Genres: []string{"Action", "Thriller"}, Year: 1988, Rating: 8.2},
		{Title: "Lethal Weapon", Description: "action comedy buddy cop crime", Genres: []string{"Action", "Comedy"}, Year: 1987, Rating: 7.6},
		{Title: "Speed", Description: "action thriller bus bomb speed", Genres: []string{"Action", "Thriller"}, Year: 1994, Rating: 7.2},
		{Title: "The Rock", Description: "action thriller prison escape military", Genres: []string{"Action", "Thriller"}, Year: 1996, Rating: 7.4},
		{Title: "Mission: Impossible", Description: "action spy thriller mission impossible", Genres: []string{"Action", "Thriller"}, Year: 1996, Rating: 7.0},
		{Title: "Top Gun", Description: "action drama military aviation", Genres: []string{"Action", "Drama"}, Year: 1986, Rating: 6.9},
		{Title: "Rain Man", Description: "drama autism family road trip", Genres: []string{"Drama"}, Year: 1988, Rating: 8.0},
		{Title: "A Beautiful Mind", Description: "drama mathematics mental illness genius", Genres: []string{"Drama"}, Year: 2001, Rating: 8.3},
		{Title: "The Silence of the Lambs", Description: "thriller horror serial killer psychological", Genres: []string{"Thriller", "Horror"}, Year: 1991, Rating: 8.6},
		{Title: "Se7en", Description: "thriller crime mystery serial killer", Genres: []string{"Thriller", "Crime"}, Year: 1995, Rating: 8.6},
		{Title: "The Usual Suspects", Description: "thriller crime mystery plot twist", Genres: []string{"Thriller", "Crime"}, Year: 2000, Rating: 8.5},
		{Title: "Memento", Description: "thriller mystery memory loss revenge", Genres: []string{"Thriller", "Mystery"}, Year: 1999, Rating: 8.4},
		{Title: "The Sixth Sense", Description: "thriller supernatural plot twist", Genres: []string{"Thriller", "Mystery"}, Year: 1999, Rating: 8.1},
		{Title: "The Green Mile", Description: "drama prison friendship execution", Genres: []string{"Drama"}, Year: 1998, Rating: 8.6},
		{Title: "Saving Private Ryan", Description: "war drama military rescue mission", Genres: []string{"War", "Drama"}, Year: 1993, Rating: 8.9},
		{Title: "Schindler's List", Description: "war drama holocaust historical", Genres: []string{"War", "Drama"}, Year: 2002, Rating: 8.9},
		{Title: "The Pianist", Description: "war drama holocaust survival", Genres: []string{"War", "Drama"}, Year: 1991, Rating: 8.5},
		{Title: "Life is Beautiful", Description: "comedy romance magical realism", Genres: []string{"Comedy", "Romance"}, Year: 2001, Rating: 8.1},
	}...)
}
