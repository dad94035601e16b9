// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// Word lists used to generate human-friendly session ids.

import "math/rand"

func randIndex(n int) int {
	return rand.Intn(n)
}

var sessionAdjectives = []string{
	"joyful", "grateful", "thrilled", "amused", "angry", "hopeful", "appreciative",
	"cheerful", "inspired", "sad", "affectionate", "proud", "enthusiastic", "elated",
	"content", "calm", "peaceful", "relaxed", "worried", "serene", "blissful",
	"exuberant", "radiant", "upbeat", "anxious", "cheery", "lively", "sunny",
	"bubbly", "vibrant", "delighted", "pleased", "frustrated", "mellow", "comical",
	"confident", "gracious", "accomplished", "satisfied", "stressed", "fulfilled",
	"happy", "harmonious", "sociable", "loving", "caring", "lonely", "compassionate",
	"empathetic", "friendly", "welcoming", "ecstatic", "jovial", "grumpy", "jubilant",
	"merry", "gleeful", "lighthearted", "carefree", "exhausted", "playful",
	"whimsical", "ambitious", "motivated", "determined", "focused", "irritated",
	"energized", "invigorated", "refreshed", "rejuvenated", "optimistic",
	"overwhelmed", "trustful", "bold", "courageous", "fearless", "animated",
	"disappointed", "spirited", "witty", "curious", "fascinated", "amazed",
	"gloomy", "astonished", "awed", "buoyant", "sentimental", "nostalgic",
	"bitter", "reflective", "thoughtful", "betrayed", "cynical", "miserable",
	"confused", "crushed", "jealous", "annoyed",
}

var sessionAnimals = []string{
	"dog", "cow", "cat", "horse", "donkey", "tiger", "lion", "panther", "leopard",
	"cheetah", "bear", "elephant", "turtle", "tortoise", "crocodile", "rabbit",
	"porcupine", "hare", "hen", "pigeon", "crow", "fish", "dolphin", "frog",
	"whale", "alligator", "eagle", "ostrich", "fox", "goat", "jackal", "armadillo",
	"eel", "goose", "wolf", "gorilla", "chimpanzee", "monkey", "beaver", "orangutan",
	"antelope", "bat", "badger", "giraffe", "hamster", "cobra", "camel", "hawk",
	"deer", "chameleon", "hippopotamus", "jaguar", "lizard", "koala", "kangaroo",
	"iguana", "llama", "jellyfish", "rhinoceros", "hedgehog", "zebra", "possum",
	"wombat", "bison", "bull", "buffalo", "sheep", "meerkat", "mouse", "otter",
	"sloth", "owl", "vulture", "flamingo", "raccoon", "mole", "duck", "swan",
	"lynx", "elk", "boar", "lemur", "mule", "baboon", "mammoth", "snake", "peacock",
	"squirrel", "crab", "panda", "shark", "chinchilla", "pig", "penguin", "seal",
	"spider", "ant", "bee", "fly", "parrot",
}
